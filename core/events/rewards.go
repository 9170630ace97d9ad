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

package events

import (
	"context"

	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
)

// Rewarded describes how the reward of one trade was split.
type Rewarded struct {
	*Base
	Trader          types.Address
	Referrer        types.Address
	Grandparent     types.Address
	Token           types.Address
	TotalFees       *num.Uint
	Volume          *num.Uint
	TotalReward     *num.Uint
	RefereeCut      *num.Uint
	ReferrerCut     *num.Uint
	GrandparentCut  *num.Uint
	PlatformCut     *num.Uint
	Round           uint64
	TicketsAssigned uint64
}

func NewRewarded(ctx context.Context, r Rewarded) *Rewarded {
	r.Base = newBase(ctx, RewardedEvent)
	return &r
}

type Claimed struct {
	*Base
	User   types.Address
	Token  types.Address
	Amount *num.Uint
	To     types.Address
}

func NewClaimed(ctx context.Context, user, token types.Address, amount *num.Uint, to types.Address) *Claimed {
	return &Claimed{
		Base:   newBase(ctx, ClaimedEvent),
		User:   user,
		Token:  token,
		Amount: amount.Clone(),
		To:     to,
	}
}

type BlacklistUpdated struct {
	*Base
	Accounts    []types.Address
	Blacklisted bool
}

func NewBlacklistUpdated(ctx context.Context, accounts []types.Address, blacklisted bool) *BlacklistUpdated {
	return &BlacklistUpdated{
		Base:        newBase(ctx, BlacklistUpdatedEvent),
		Accounts:    append([]types.Address(nil), accounts...),
		Blacklisted: blacklisted,
	}
}

// SettingUpdated is emitted by every setter with the name of the setting
// and a human readable representation of its new value.
type SettingUpdated struct {
	*Base
	Engine  string
	Setting string
	Value   string
}

func NewSettingUpdated(ctx context.Context, engine, setting, value string) *SettingUpdated {
	return &SettingUpdated{
		Base:    newBase(ctx, SettingUpdatedEvent),
		Engine:  engine,
		Setting: setting,
		Value:   value,
	}
}
