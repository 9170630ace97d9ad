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
	"encoding/json"
	"sort"

	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
)

type decidedRound struct {
	Round   uint64          `json:"round"`
	Winners []types.Address `json:"winners"`
}

type checkpoint struct {
	WinnersPerRound uint32          `json:"winners_per_round"`
	RewardTokens    []types.Address `json:"reward_tokens"`
	RewardAmounts   []*num.Uint     `json:"reward_amounts"`
	Rounds          []decidedRound  `json:"rounds"`
}

func (e *Engine) Name() types.CheckpointName {
	return types.LotteryCheckpoint
}

func (e *Engine) Checkpoint() ([]byte, error) {
	cp := checkpoint{
		WinnersPerRound: e.winnersPerRound,
		RewardTokens:    e.rewardTokens,
		RewardAmounts:   e.rewardAmounts,
		Rounds:          make([]decidedRound, 0, len(e.decided)),
	}
	for r := range e.decided {
		cp.Rounds = append(cp.Rounds, decidedRound{Round: r, Winners: e.roundWinners[r]})
	}
	sort.Slice(cp.Rounds, func(i, j int) bool { return cp.Rounds[i].Round < cp.Rounds[j].Round })
	return json.Marshal(cp)
}

func (e *Engine) Load(data []byte) error {
	cp := checkpoint{}
	if err := json.Unmarshal(data, &cp); err != nil {
		return err
	}
	e.reset()
	e.winnersPerRound = cp.WinnersPerRound
	e.rewardTokens = cp.RewardTokens
	e.rewardAmounts = cp.RewardAmounts
	for _, r := range cp.Rounds {
		e.decided[r.Round] = struct{}{}
		e.roundWinners[r.Round] = r.Winners
	}
	return nil
}
