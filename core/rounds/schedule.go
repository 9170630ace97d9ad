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

// Package rounds maps time onto the lottery rounds and leaderboard days.
// Indices are derived from the current time on every call, they are never
// cached.
package rounds

import (
	"fmt"
	"math"
	"time"

	"code.dibs.finance/dibs/core/types"
)

const Day = 24 * time.Hour

type Schedule struct {
	Start         time.Time     `json:"start"`
	RoundDuration time.Duration `json:"roundDuration"`
	DayDuration   time.Duration `json:"dayDuration"`
}

func NewSchedule(start time.Time, roundDuration time.Duration) Schedule {
	return Schedule{
		Start:         start.UTC(),
		RoundDuration: roundDuration,
		DayDuration:   Day,
	}
}

func (s Schedule) Validate() error {
	if s.RoundDuration <= 0 {
		return fmt.Errorf("%w: round duration must be positive", types.ErrZeroValue)
	}
	if s.DayDuration <= 0 {
		return fmt.Errorf("%w: day duration must be positive", types.ErrZeroValue)
	}
	return nil
}

// RoundAt returns the index of the round active at now, 0 before the start.
func (s Schedule) RoundAt(now time.Time) uint64 {
	return bucket(s.Start, now, s.RoundDuration)
}

// DayAt returns the index of the day active at now, 0 before the start.
func (s Schedule) DayAt(now time.Time) uint64 {
	return bucket(s.Start, now, s.dayDuration())
}

// RoundStart returns the start of the round. Rounds too far in the future to
// be represented saturate to the largest offset a time.Duration can hold.
func (s Schedule) RoundStart(round uint64) time.Time {
	if s.RoundDuration <= 0 {
		return s.Start
	}
	if round > uint64(math.MaxInt64/int64(s.RoundDuration)) {
		return s.Start.Add(time.Duration(math.MaxInt64))
	}
	return s.Start.Add(time.Duration(round) * s.RoundDuration)
}

func (s Schedule) RoundEnd(round uint64) time.Time {
	if round == math.MaxUint64 {
		return s.RoundStart(round)
	}
	return s.RoundStart(round + 1)
}

// IsRoundOver tells if the round is strictly before the active round, which
// is the case once its end is at or before now.
func (s Schedule) IsRoundOver(round uint64, now time.Time) bool {
	return round < s.RoundAt(now)
}

func (s Schedule) IsRoundActive(round uint64, now time.Time) bool {
	return !now.Before(s.Start) && round == s.RoundAt(now)
}

// IsDayOver tells if the day is strictly before the active day.
func (s Schedule) IsDayOver(day uint64, now time.Time) bool {
	return day < s.DayAt(now)
}

func (s Schedule) dayDuration() time.Duration {
	if s.DayDuration <= 0 {
		return Day
	}
	return s.DayDuration
}

func bucket(start, now time.Time, d time.Duration) uint64 {
	if d <= 0 || !now.After(start) {
		return 0
	}
	return uint64(now.Sub(start) / d)
}
