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
	"bytes"
	"encoding/json"
	"sort"

	"code.dibs.finance/dibs/core/rounds"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
)

type balances = map[types.Address]map[types.Address]*num.Uint

type checkpoint struct {
	Percentages      types.Percentages        `json:"percentages"`
	TierToPercentage map[uint32]uint32        `json:"tier_to_percentage"`
	TierToTickets    map[uint32]uint64        `json:"tier_to_tickets"`
	ReferrerTier     map[types.Address]uint32 `json:"referrer_tier"`
	UserTier         map[types.Address]uint32 `json:"user_tier"`

	AccBalance     balances                          `json:"acc_balance"`
	ClaimedBalance balances                          `json:"claimed_balance"`
	UserTokens     map[types.Address][]types.Address `json:"user_tokens"`

	VolumeParent      balances `json:"volume_parent"`
	VolumeGrandparent balances `json:"volume_grandparent"`
	VolumeGenerated   balances `json:"volume_generated"`

	UserLotteryTickets map[uint64]map[types.Address]uint64 `json:"user_lottery_tickets"`
	TotalRoundTickets  map[uint64]uint64                   `json:"total_round_tickets"`
	UserLotteryRounds  map[types.Address][]uint64          `json:"user_lottery_rounds"`

	Blacklisted   []types.Address `json:"blacklisted"`
	MuonInterface types.Address   `json:"muon_interface"`
	Schedule      rounds.Schedule `json:"schedule"`
}

func (e *Engine) Name() types.CheckpointName {
	return types.DibsCheckpoint
}

func (e *Engine) Checkpoint() ([]byte, error) {
	cp := checkpoint{
		Percentages:        e.percentages,
		TierToPercentage:   e.tierToPercentage,
		TierToTickets:      e.tierToTickets,
		ReferrerTier:       e.referrerTier,
		UserTier:           e.userTier,
		AccBalance:         e.accBalance,
		ClaimedBalance:     e.claimedBalance,
		UserTokens:         e.userTokens,
		VolumeParent:       e.totalReferredVolumeParent,
		VolumeGrandparent:  e.totalReferredVolumeGrandparent,
		VolumeGenerated:    e.totalGeneratedVolume,
		UserLotteryTickets: e.userLotteryTickets,
		TotalRoundTickets:  e.totalRoundTickets,
		UserLotteryRounds:  e.userLotteryRounds,
		Blacklisted:        make([]types.Address, 0, len(e.blacklisted)),
		MuonInterface:      e.muonInterface,
		Schedule:           e.schedule,
	}
	for a := range e.blacklisted {
		cp.Blacklisted = append(cp.Blacklisted, a)
	}
	sort.Slice(cp.Blacklisted, func(i, j int) bool {
		return bytes.Compare(cp.Blacklisted[i][:], cp.Blacklisted[j][:]) < 0
	})
	return json.Marshal(cp)
}

func (e *Engine) Load(data []byte) error {
	cp := checkpoint{}
	if err := json.Unmarshal(data, &cp); err != nil {
		return err
	}
	e.reset()
	e.percentages = cp.Percentages
	copyInto(e.tierToPercentage, cp.TierToPercentage)
	copyInto(e.tierToTickets, cp.TierToTickets)
	copyInto(e.referrerTier, cp.ReferrerTier)
	copyInto(e.userTier, cp.UserTier)
	copyInto(e.accBalance, cp.AccBalance)
	copyInto(e.claimedBalance, cp.ClaimedBalance)
	copyInto(e.userTokens, cp.UserTokens)
	copyInto(e.totalReferredVolumeParent, cp.VolumeParent)
	copyInto(e.totalReferredVolumeGrandparent, cp.VolumeGrandparent)
	copyInto(e.totalGeneratedVolume, cp.VolumeGenerated)
	copyInto(e.userLotteryTickets, cp.UserLotteryTickets)
	copyInto(e.totalRoundTickets, cp.TotalRoundTickets)
	copyInto(e.userLotteryRounds, cp.UserLotteryRounds)
	for _, a := range cp.Blacklisted {
		e.blacklisted[a] = struct{}{}
	}
	e.muonInterface = cp.MuonInterface
	if !cp.Schedule.Start.IsZero() {
		e.schedule = cp.Schedule
	}
	return nil
}

func copyInto[K comparable, V any](dst, src map[K]V) {
	for k, v := range src {
		dst[k] = v
	}
}
