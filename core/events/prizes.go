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
)

type RoundWinnersSet struct {
	*Base
	Round   uint64
	Winners []types.Address
}

func NewRoundWinnersSet(ctx context.Context, round uint64, winners []types.Address) *RoundWinnersSet {
	return &RoundWinnersSet{
		Base:    newBase(ctx, RoundWinnersSetEvent),
		Round:   round,
		Winners: append([]types.Address(nil), winners...),
	}
}

type TopReferrersSet struct {
	*Base
	Source    types.Address
	Day       uint64
	Referrers []types.Address
}

func NewTopReferrersSet(ctx context.Context, source types.Address, day uint64, referrers []types.Address) *TopReferrersSet {
	return &TopReferrersSet{
		Base:      newBase(ctx, TopReferrersSetEvent),
		Source:    source,
		Day:       day,
		Referrers: append([]types.Address(nil), referrers...),
	}
}

type LeaderBoardUpdated struct {
	*Base
	Source      types.Address
	LeaderBoard types.LeaderBoard
}

func NewLeaderBoardUpdated(ctx context.Context, source types.Address, lb types.LeaderBoard) *LeaderBoardUpdated {
	return &LeaderBoardUpdated{
		Base:        newBase(ctx, LeaderBoardUpdatedEvent),
		Source:      source,
		LeaderBoard: lb.Clone(),
	}
}

// PrizeClaimed lists every balance paid out by a single claim.
type PrizeClaimed struct {
	*Base
	Source   types.Address
	User     types.Address
	To       types.Address
	Balances []types.TokenBalance
}

func NewPrizeClaimed(ctx context.Context, source, user, to types.Address, balances []types.TokenBalance) *PrizeClaimed {
	return &PrizeClaimed{
		Base:     newBase(ctx, PrizeClaimedEvent),
		Source:   source,
		User:     user,
		To:       to,
		Balances: balances,
	}
}
