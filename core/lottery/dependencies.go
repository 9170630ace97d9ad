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

package lottery

import (
	"context"
	"time"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/rounds"
	"code.dibs.finance/dibs/core/types"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.dibs.finance/dibs/core/lottery Broker,Accountant

type Broker interface {
	Send(event events.Event)
}

type TimeService interface {
	GetTimeNow() time.Time
}

// Accountant gives the lottery the round schedule and the address of the
// oracle relay allowed to decide the winners.
type Accountant interface {
	MuonInterface() types.Address
	Schedule() rounds.Schedule
}

type Roles interface {
	Require(role types.Role, account types.Address) error
}

// Prizes holds the balances of the winners.
type Prizes interface {
	Deposit(prizes ...types.Prize) error
	UserTokensAndBalance(winner types.Address) []types.TokenBalance
	ClaimReward(ctx context.Context, caller, to types.Address) error
	ClaimToken(ctx context.Context, caller, token, to types.Address) error
}
