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

package prizes

import (
	"encoding/json"

	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
)

// State is the serializable content of a ledger, it is embedded in the
// checkpoint of the engines owning a private ledger.
type State struct {
	TokensOwned map[types.Address][]types.Address             `json:"tokens_owned"`
	Balances    map[types.Address]map[types.Address]*num.Uint `json:"balances"`
}

func (l *Ledger) State() State {
	return State{
		TokensOwned: l.tokensOwned,
		Balances:    l.balances,
	}
}

func (l *Ledger) Restore(s State) {
	l.reset()
	for winner, tokens := range s.TokensOwned {
		l.tokensOwned[winner] = append([]types.Address(nil), tokens...)
	}
	for winner, balances := range s.Balances {
		l.balances[winner] = map[types.Address]*num.Uint{}
		for token, bal := range balances {
			l.balances[winner][token] = bal.Clone()
		}
	}
}

func (l *Ledger) Name() types.CheckpointName {
	return types.PrizesCheckpoint
}

func (l *Ledger) Checkpoint() ([]byte, error) {
	return json.Marshal(l.State())
}

func (l *Ledger) Load(data []byte) error {
	s := State{}
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	l.Restore(s)
	return nil
}
