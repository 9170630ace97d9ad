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
	"context"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.dibs.finance/dibs/core/prizes Broker,Tokens

// Broker is used to notify the prize payouts.
type Broker interface {
	Send(event events.Event)
}

// Tokens pays out the prizes held by the ledger.
type Tokens interface {
	Transfer(ctx context.Context, transfers ...types.Transfer) error
}
