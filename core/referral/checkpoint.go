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

package referral

import (
	"encoding/json"
	"fmt"
	"sort"

	"code.dibs.finance/dibs/core/types"
)

type codeEntry struct {
	Name  string        `json:"name"`
	Owner types.Address `json:"owner"`
}

type checkpoint struct {
	Codes   []codeEntry                     `json:"codes"`
	Parents map[types.Address]types.Address `json:"parents"`
}

func (e *Engine) Name() types.CheckpointName {
	return types.ReferralCheckpoint
}

func (e *Engine) Checkpoint() ([]byte, error) {
	cp := checkpoint{
		Codes:   make([]codeEntry, 0, len(e.codeOwners)),
		Parents: e.parents,
	}
	for code, owner := range e.codeOwners {
		if code == e.rootCode {
			continue
		}
		cp.Codes = append(cp.Codes, codeEntry{Name: e.codeNames[code], Owner: owner})
	}
	sort.Slice(cp.Codes, func(i, j int) bool {
		return cp.Codes[i].Name < cp.Codes[j].Name
	})
	return json.Marshal(cp)
}

func (e *Engine) Load(data []byte) error {
	cp := checkpoint{}
	if err := json.Unmarshal(data, &cp); err != nil {
		return err
	}
	e.reset()
	for _, c := range cp.Codes {
		code := types.CodeFromName(c.Name)
		if _, ok := e.codeOwners[code]; ok {
			return fmt.Errorf("duplicated code %q in checkpoint", c.Name)
		}
		e.codeOwners[code] = c.Owner
		e.codeNames[code] = c.Name
		e.addressToCode[c.Owner] = code
	}
	for user, parent := range cp.Parents {
		e.parents[user] = parent
	}
	return nil
}
