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

package pairrewarder

import (
	"encoding/json"

	"code.dibs.finance/dibs/core/leaderboard"
	"code.dibs.finance/dibs/core/prizes"
	"code.dibs.finance/dibs/core/types"
)

type rewarderState struct {
	Address     types.Address     `json:"address"`
	Pair        types.Address     `json:"pair"`
	Version     string            `json:"version"`
	Roles       json.RawMessage   `json:"roles"`
	Prizes      prizes.State      `json:"prizes"`
	Leaderboard leaderboard.State `json:"leaderboard"`
}

type checkpoint struct {
	Nonce     uint64          `json:"nonce"`
	Template  string          `json:"template"`
	Rewarders []rewarderState `json:"rewarders"`
}

func (f *Factory) Name() types.CheckpointName {
	return types.PairRewardCheckpoint
}

// Checkpoint lists the rewarders by pair in deployment order, which is
// enough to rebuild the pair lists on load.
func (f *Factory) Checkpoint() ([]byte, error) {
	cp := checkpoint{
		Nonce:     f.nonce,
		Template:  f.template,
		Rewarders: make([]rewarderState, 0, len(f.rewarders)),
	}
	for _, pair := range f.allPairs {
		for _, addr := range f.pairRewarders[pair] {
			r := f.rewarders[addr]
			roles, err := r.roles.Checkpoint()
			if err != nil {
				return nil, err
			}
			cp.Rewarders = append(cp.Rewarders, rewarderState{
				Address:     addr,
				Pair:        pair,
				Version:     r.version,
				Roles:       roles,
				Prizes:      r.prizes.State(),
				Leaderboard: r.Engine.State(),
			})
		}
	}
	return json.Marshal(cp)
}

func (f *Factory) Load(data []byte) error {
	cp := checkpoint{}
	if err := json.Unmarshal(data, &cp); err != nil {
		return err
	}
	if _, ok := f.implementations[cp.Template]; !ok && cp.Template != "" {
		return ErrUnknownImplementation(cp.Template)
	}

	f.reset()
	if cp.Template != "" {
		f.template = cp.Template
	}
	f.nonce = cp.Nonce
	for _, rs := range cp.Rewarders {
		if _, ok := f.implementations[rs.Version]; !ok {
			return ErrUnknownImplementation(rs.Version)
		}
		r := f.newRewarder(rs.Address, rs.Pair, rs.Version)
		if err := r.roles.Load(rs.Roles); err != nil {
			return err
		}
		r.prizes.Restore(rs.Prizes)
		if err := r.Engine.Restore(rs.Leaderboard); err != nil {
			return err
		}
		f.rewarders[rs.Address] = r
		if _, ok := f.pairRewarders[rs.Pair]; !ok {
			f.allPairs = append(f.allPairs, rs.Pair)
		}
		f.pairRewarders[rs.Pair] = append(f.pairRewarders[rs.Pair], rs.Address)
	}
	return nil
}
