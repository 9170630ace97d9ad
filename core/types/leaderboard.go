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

package types

import "code.dibs.finance/dibs/libs/num"

// LeaderBoard is a reward table that applies from its activation day to the
// activation day of the next snapshot.
type LeaderBoard struct {
	ActivationDay uint64    `json:"activationDay"`
	Count         uint32    `json:"count"`
	RewardTokens  []Address `json:"rewardTokens"`
	// RankRewardAmount[tokenIndex][rank]
	RankRewardAmount [][]*num.Uint `json:"rankRewardAmount"`
}

// Clone deep copies the snapshot so callers can not mutate the ledger.
func (l LeaderBoard) Clone() LeaderBoard {
	cpy := LeaderBoard{
		ActivationDay:    l.ActivationDay,
		Count:            l.Count,
		RewardTokens:     append([]Address(nil), l.RewardTokens...),
		RankRewardAmount: make([][]*num.Uint, 0, len(l.RankRewardAmount)),
	}
	for _, row := range l.RankRewardAmount {
		cpyRow := make([]*num.Uint, 0, len(row))
		for _, v := range row {
			cpyRow = append(cpyRow, v.Clone())
		}
		cpy.RankRewardAmount = append(cpy.RankRewardAmount, cpyRow)
	}
	return cpy
}
