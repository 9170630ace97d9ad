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

package dibs

import (
	"context"
	"time"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.dibs.finance/dibs/core/dibs Broker,TimeService,Tokens

// Broker is used to notify rewards, claims and configuration changes.
type Broker interface {
	Send(event events.Event)
}

// TimeService is used to find the active lottery round.
type TimeService interface {
	GetTimeNow() time.Time
}

// Tokens moves the tokens the rewards are paid with. The engine holds the
// rewards under its own address.
type Tokens interface {
	Transfer(ctx context.Context, transfers ...types.Transfer) error
	TransferFrom(ctx context.Context, spender types.Address, transfer types.Transfer) error
}

// Registry resolves the referral chain of a trader.
type Registry interface {
	Root() types.Address
	ResolveReferrer(code types.Code) types.Address
	Parent(addr types.Address) types.Address
	BindParentIfUnset(ctx context.Context, user, parent types.Address) bool
}

// Roles authorizes the privileged entry points.
type Roles interface {
	Require(role types.Role, account types.Address) error
	HasRole(role types.Role, account types.Address) bool
}
