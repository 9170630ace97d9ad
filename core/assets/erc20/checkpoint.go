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

package erc20

import (
	"bytes"
	"encoding/json"
	"sort"

	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
)

type checkpoint struct {
	Tokens     []Token                                                         `json:"tokens"`
	Balances   map[types.Address]map[types.Address]*num.Uint                   `json:"balances"`
	Allowances map[types.Address]map[types.Address]map[types.Address]*num.Uint `json:"allowances"`
}

func (l *Ledger) Name() types.CheckpointName {
	return types.TokensCheckpoint
}

func (l *Ledger) Checkpoint() ([]byte, error) {
	cp := checkpoint{
		Tokens:     make([]Token, 0, len(l.tokens)),
		Balances:   l.balances,
		Allowances: l.allowances,
	}
	for _, t := range l.tokens {
		cp.Tokens = append(cp.Tokens, t)
	}
	sort.Slice(cp.Tokens, func(i, j int) bool {
		return bytes.Compare(cp.Tokens[i].Address[:], cp.Tokens[j].Address[:]) < 0
	})
	return json.Marshal(cp)
}

func (l *Ledger) Load(data []byte) error {
	cp := checkpoint{}
	if err := json.Unmarshal(data, &cp); err != nil {
		return err
	}
	l.reset()
	for _, t := range cp.Tokens {
		l.tokens[t.Address] = t
	}
	if cp.Balances != nil {
		l.balances = cp.Balances
	}
	if cp.Allowances != nil {
		l.allowances = cp.Allowances
	}
	return nil
}
