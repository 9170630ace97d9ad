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

package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"code.dibs.finance/dibs/config/encoding"
	"code.dibs.finance/dibs/core/muon"
	"code.dibs.finance/dibs/core/rounds"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"

	"github.com/pkg/errors"
)

// Contracts are the addresses the engines act as.
type Contracts struct {
	Dibs       types.Address `json:"dibs"`
	Lottery    types.Address `json:"lottery"`
	Relay      types.Address `json:"relay"`
	Factory    types.Address `json:"factory"`
	Repository types.Address `json:"repository"`
	// Platform owns the root code and the excess tokens.
	Platform types.Address `json:"platform"`
}

type ScheduleState struct {
	Start         encoding.Timestamp `json:"start"`
	RoundDuration encoding.Duration  `json:"round_duration"`
}

type MuonState struct {
	AppID     *num.Uint      `json:"app_id"`
	PublicKey muon.PublicKey `json:"public_key"`
	Gateway   types.Address  `json:"gateway"`
}

type TokenState struct {
	Address  types.Address               `json:"address"`
	Symbol   string                      `json:"symbol"`
	Decimals uint8                       `json:"decimals"`
	Balances map[types.Address]*num.Uint `json:"balances"`
}

// GenesisState is applied once, on the first start of a node with an empty
// store.
type GenesisState struct {
	Contracts       Contracts                      `json:"contracts"`
	Roles           map[types.Role][]types.Address `json:"roles"`
	Schedule        ScheduleState                  `json:"schedule"`
	WinnersPerRound uint32                         `json:"winners_per_round"`
	Muon            MuonState                      `json:"muon"`
	Tokens          []TokenState                   `json:"tokens"`
}

func DefaultGenesisState() GenesisState {
	return GenesisState{
		Roles: map[types.Role][]types.Address{},
		Schedule: ScheduleState{
			Start:         encoding.Timestamp{Time: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
			RoundDuration: encoding.Duration{Duration: 7 * rounds.Day},
		},
		WinnersPerRound: 16,
		Muon: MuonState{
			AppID:     num.UintZero(),
			PublicKey: muon.PublicKey{X: num.UintZero()},
		},
	}
}

func (g GenesisState) RoundSchedule() rounds.Schedule {
	return rounds.NewSchedule(g.Schedule.Start.Time, g.Schedule.RoundDuration.Duration)
}

// Validate checks what cannot be fixed by a setter once the node runs.
func (g GenesisState) Validate() error {
	if len(g.Roles[types.RoleAdmin]) == 0 {
		return fmt.Errorf("%w: genesis needs at least one admin", types.ErrInvalidInput)
	}
	if len(g.Roles[types.RoleSetter]) == 0 {
		return fmt.Errorf("%w: genesis needs at least one setter", types.ErrInvalidInput)
	}
	if g.Contracts.Relay == types.ZeroAddress || g.Contracts.Platform == types.ZeroAddress {
		return fmt.Errorf("%w: relay and platform addresses are required", types.ErrZeroValue)
	}
	if g.Muon.AppID == nil || g.Muon.PublicKey.X == nil {
		return fmt.Errorf("%w: muon app id and public key are required", types.ErrInvalidInput)
	}
	return g.RoundSchedule().Validate()
}

func Dump(g *GenesisState) (string, error) {
	bytes, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func LoadGenesis(path string) (*GenesisState, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read genesis file")
	}
	g := DefaultGenesisState()
	if err := json.Unmarshal(buf, &g); err != nil {
		return nil, errors.Wrapf(err, "couldn't parse genesis file %s", path)
	}
	return &g, nil
}
