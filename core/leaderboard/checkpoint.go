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

package leaderboard

import (
	"encoding/json"
	"fmt"
	"sort"

	"code.dibs.finance/dibs/core/types"
)

type decidedDay struct {
	Day       uint64          `json:"day"`
	Referrers []types.Address `json:"referrers"`
}

// State is the serializable content of the engine, pair rewarders embed it
// in their own checkpoint.
type State struct {
	LeaderBoards []types.LeaderBoard        `json:"leader_boards"`
	Days         []decidedDay               `json:"days"`
	WinningDays  map[types.Address][]uint64 `json:"winning_days"`
}

// State returns a copy of the content of the engine.
func (e *Engine) State() State {
	s := State{
		LeaderBoards: make([]types.LeaderBoard, 0, len(e.leaderBoards)),
		Days:         make([]decidedDay, 0, len(e.decided)),
		WinningDays:  make(map[types.Address][]uint64, len(e.winningDays)),
	}
	for _, lb := range e.leaderBoards {
		s.LeaderBoards = append(s.LeaderBoards, lb.Clone())
	}
	for d := range e.decided {
		s.Days = append(s.Days, decidedDay{Day: d, Referrers: append([]types.Address(nil), e.topReferrers[d]...)})
	}
	for addr, days := range e.winningDays {
		s.WinningDays[addr] = append([]uint64(nil), days...)
	}
	sort.Slice(s.Days, func(i, j int) bool { return s.Days[i].Day < s.Days[j].Day })
	return s
}

func (e *Engine) Restore(s State) error {
	e.reset()
	for i, lb := range s.LeaderBoards {
		if i > 0 && lb.ActivationDay <= s.LeaderBoards[i-1].ActivationDay {
			return fmt.Errorf("leader boards are not sorted by activation day at index %d", i)
		}
		e.leaderBoards = append(e.leaderBoards, lb.Clone())
	}
	for _, d := range s.Days {
		e.decided[d.Day] = struct{}{}
		e.topReferrers[d.Day] = d.Referrers
	}
	for addr, days := range s.WinningDays {
		e.winningDays[addr] = append([]uint64(nil), days...)
	}
	return nil
}

func (e *Engine) Name() types.CheckpointName {
	return types.LeaderboardCheckpoint
}

func (e *Engine) Checkpoint() ([]byte, error) {
	return json.Marshal(e.State())
}

func (e *Engine) Load(data []byte) error {
	s := State{}
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return e.Restore(s)
}
