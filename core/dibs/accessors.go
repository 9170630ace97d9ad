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
	"code.dibs.finance/dibs/core/rounds"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
)

func (e *Engine) Self() types.Address {
	return e.self
}

func (e *Engine) MuonInterface() types.Address {
	return e.muonInterface
}

func (e *Engine) Schedule() rounds.Schedule {
	return e.schedule
}

// Roles gives the other engines access to the role table of the accountant.
func (e *Engine) Roles() Roles {
	return e.roles
}

func (e *Engine) ActiveLotteryRound() uint64 {
	return e.schedule.RoundAt(e.timeService.GetTimeNow())
}

func (e *Engine) ActiveDay() uint64 {
	return e.schedule.DayAt(e.timeService.GetTimeNow())
}

func (e *Engine) Percentages() types.Percentages {
	return e.percentages
}

func (e *Engine) TierToPercentage(tier uint32) uint32 {
	return e.tierToPercentage[tier]
}

func (e *Engine) TierToTickets(tier uint32) uint64 {
	return e.tierToTickets[tier]
}

func (e *Engine) ReferrerTier(addr types.Address) uint32 {
	return e.referrerTier[addr]
}

func (e *Engine) UserTier(addr types.Address) uint32 {
	return e.userTier[addr]
}

func (e *Engine) AccBalance(token, addr types.Address) *num.Uint {
	return get(e.accBalance, token, addr)
}

func (e *Engine) ClaimedBalance(token, addr types.Address) *num.Uint {
	return get(e.claimedBalance, token, addr)
}

// Unclaimed is the part of the accrued balance that can still be claimed
// locally.
func (e *Engine) Unclaimed(token, addr types.Address) *num.Uint {
	acc, claimed := e.AccBalance(token, addr), e.ClaimedBalance(token, addr)
	if claimed.GTE(acc) {
		return num.UintZero()
	}
	return acc.Sub(acc, claimed)
}

func (e *Engine) UserTokens(addr types.Address) []types.Address {
	return append([]types.Address(nil), e.userTokens[addr]...)
}

// UserTokensAndBalance returns every token ever accrued by addr along with
// its unclaimed balance.
func (e *Engine) UserTokensAndBalance(addr types.Address) []types.TokenBalance {
	out := make([]types.TokenBalance, 0, len(e.userTokens[addr]))
	for _, t := range e.userTokens[addr] {
		out = append(out, types.TokenBalance{Token: t, Amount: e.Unclaimed(t, addr)})
	}
	return out
}

func (e *Engine) TotalReferredVolumeParent(token, addr types.Address) *num.Uint {
	return get(e.totalReferredVolumeParent, token, addr)
}

func (e *Engine) TotalReferredVolumeGrandparent(token, addr types.Address) *num.Uint {
	return get(e.totalReferredVolumeGrandparent, token, addr)
}

func (e *Engine) TotalGeneratedVolume(token, addr types.Address) *num.Uint {
	return get(e.totalGeneratedVolume, token, addr)
}

func (e *Engine) UserLotteryTickets(round uint64, addr types.Address) uint64 {
	return e.userLotteryTickets[round][addr]
}

func (e *Engine) TotalRoundTickets(round uint64) uint64 {
	return e.totalRoundTickets[round]
}

func (e *Engine) UserLotteryRounds(addr types.Address) []uint64 {
	return append([]uint64(nil), e.userLotteryRounds[addr]...)
}

func (e *Engine) IsBlacklisted(addr types.Address) bool {
	_, ok := e.blacklisted[addr]
	return ok
}
