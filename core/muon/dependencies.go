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

package muon

import (
	"context"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/common"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.dibs.finance/dibs/core/muon Broker,GroupVerifier,GatewayVerifier,Accountant,Lottery,Leaderboard

type Broker interface {
	Send(event events.Event)
}

type Roles interface {
	Require(role types.Role, account types.Address) error
}

type GroupVerifier interface {
	VerifyGroupSignature(msgHash common.Hash, sig SchnorrSign, key PublicKey) bool
}

type GatewayVerifier interface {
	VerifyGatewaySignature(msgHash common.Hash, sig []byte, gateway types.Address) bool
}

// Accountant is paid out on behalf of the users by the relay.
type Accountant interface {
	ClaimFor(ctx context.Context, caller, from, token types.Address, amount *num.Uint, to types.Address, accumulativeBalance *num.Uint) error
	ClaimExcessTokens(ctx context.Context, caller, token, to types.Address, accPlatformBalance, amount *num.Uint) error
}

type Lottery interface {
	SetRoundWinners(ctx context.Context, caller types.Address, round uint64, winners []types.Address) error
}

type Leaderboard interface {
	SetTopReferrers(ctx context.Context, caller types.Address, day uint64, referrers []types.Address) error
}
