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

package rounds_test

import (
	"math"
	"testing"
	"time"

	"code.dibs.finance/dibs/core/rounds"
	"code.dibs.finance/dibs/core/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)

func TestSchedule(t *testing.T) {
	t.Run("Indices before the start are zero", testBeforeStart)
	t.Run("Rounds are floor divisions of the elapsed time", testRoundIndices)
	t.Run("Days are 24 hours long", testDayIndices)
	t.Run("Round boundaries", testRoundBoundaries)
	t.Run("Far future rounds are never over", testFarFutureRounds)
	t.Run("Invalid schedules are rejected", testValidate)
}

func testBeforeStart(t *testing.T) {
	s := rounds.NewSchedule(start, 7*rounds.Day)

	before := start.Add(-time.Hour)
	assert.Equal(t, uint64(0), s.RoundAt(before))
	assert.Equal(t, uint64(0), s.DayAt(before))
	assert.False(t, s.IsRoundOver(0, before))
	assert.False(t, s.IsDayOver(0, before))
}

func testRoundIndices(t *testing.T) {
	s := rounds.NewSchedule(start, 7*rounds.Day)

	assert.Equal(t, uint64(0), s.RoundAt(start))
	assert.Equal(t, uint64(0), s.RoundAt(start.Add(7*rounds.Day-time.Second)))
	assert.Equal(t, uint64(1), s.RoundAt(start.Add(7*rounds.Day)))
	assert.Equal(t, uint64(3), s.RoundAt(start.Add(22*rounds.Day)))
}

func testDayIndices(t *testing.T) {
	s := rounds.NewSchedule(start, 7*rounds.Day)

	assert.Equal(t, uint64(7), s.DayAt(start.Add(7*rounds.Day)))
	assert.True(t, s.IsDayOver(6, start.Add(7*rounds.Day)))
	assert.False(t, s.IsDayOver(7, start.Add(7*rounds.Day)))
}

func testRoundBoundaries(t *testing.T) {
	s := rounds.NewSchedule(start, 7*rounds.Day)

	end := s.RoundEnd(0)
	assert.True(t, start.Add(7*rounds.Day).Equal(end))
	assert.False(t, s.IsRoundOver(0, end.Add(-time.Nanosecond)))
	assert.True(t, s.IsRoundOver(0, end))
	assert.True(t, s.IsRoundActive(1, end))
	assert.False(t, s.IsRoundActive(0, end))
}

func testValidate(t *testing.T) {
	require.NoError(t, rounds.NewSchedule(start, time.Hour).Validate())
	require.ErrorIs(t, rounds.NewSchedule(start, 0).Validate(), types.ErrZeroValue)
}

func testFarFutureRounds(t *testing.T) {
	s := rounds.NewSchedule(start, 7*rounds.Day)
	now := start.Add(time.Hour)

	for _, round := range []uint64{1, 15250, math.MaxUint32, math.MaxInt64, math.MaxUint64} {
		assert.False(t, s.IsRoundOver(round, now), "round %d", round)
		assert.False(t, s.IsRoundActive(round, now), "round %d", round)
		assert.True(t, s.RoundEnd(round).After(now), "round %d", round)
	}
	assert.True(t, s.IsRoundActive(0, now))
}
