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

package access

import (
	"encoding/json"

	"code.dibs.finance/dibs/core/types"
)

type checkpoint struct {
	Members map[types.Role][]types.Address `json:"members"`
}

func (e *Engine) Name() types.CheckpointName {
	return types.AccessCheckpoint
}

func (e *Engine) Checkpoint() ([]byte, error) {
	cp := checkpoint{Members: map[types.Role][]types.Address{}}
	for _, r := range types.Roles() {
		cp.Members[r] = e.Members(r)
	}
	return json.Marshal(cp)
}

func (e *Engine) Load(data []byte) error {
	cp := checkpoint{}
	if err := json.Unmarshal(data, &cp); err != nil {
		return err
	}
	e.reset()
	for role, accounts := range cp.Members {
		if _, ok := e.members[role]; !ok {
			continue
		}
		for _, a := range accounts {
			e.grant(role, a)
		}
	}
	return nil
}
