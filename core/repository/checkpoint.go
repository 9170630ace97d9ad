// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package repository

import (
	"bytes"
	"encoding/json"
	"sort"

	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/common"
)

type projectState struct {
	ID common.Hash `json:"id"`
	Project
}

type roundSeed struct {
	RoundID common.Hash `json:"round_id"`
	Seed    *num.Uint   `json:"seed"`
}

type checkpoint struct {
	Projects []projectState `json:"projects"`
	Seeds    []roundSeed    `json:"seeds"`
}

func (r *Repository) Name() types.CheckpointName {
	return types.RepositoryCheckpoint
}

func (r *Repository) Checkpoint() ([]byte, error) {
	cp := checkpoint{
		Projects: make([]projectState, 0, len(r.projectIDs)),
		Seeds:    make([]roundSeed, 0, len(r.roundSeeds)),
	}
	for _, id := range r.projectIDs {
		cp.Projects = append(cp.Projects, projectState{ID: id, Project: *r.projects[id]})
	}
	for id, seed := range r.roundSeeds {
		cp.Seeds = append(cp.Seeds, roundSeed{RoundID: id, Seed: seed})
	}
	sort.Slice(cp.Seeds, func(i, j int) bool {
		return bytes.Compare(cp.Seeds[i].RoundID[:], cp.Seeds[j].RoundID[:]) < 0
	})
	return json.Marshal(cp)
}

func (r *Repository) Load(data []byte) error {
	cp := checkpoint{}
	if err := json.Unmarshal(data, &cp); err != nil {
		return err
	}
	r.reset()
	for _, p := range cp.Projects {
		project := p.Project
		r.projects[p.ID] = &project
		r.projectIDs = append(r.projectIDs, p.ID)
	}
	for _, s := range cp.Seeds {
		r.roundSeeds[s.RoundID] = s.Seed
	}
	return nil
}
