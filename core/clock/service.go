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

// Package clock provides the time source of the engines. Every state
// transition reads the time once, at the start of the call.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Service wraps a clock, the real one in production and a fake one in tests.
type Service struct {
	clock clockwork.Clock
}

func New(c clockwork.Clock) *Service {
	return &Service{clock: c}
}

// NewReal returns a service reading the wall clock.
func NewReal() *Service {
	return New(clockwork.NewRealClock())
}

// NewFake returns a service and the fake clock driving it.
func NewFake(start time.Time) (*Service, *clockwork.FakeClock) {
	fake := clockwork.NewFakeClockAt(start)
	return New(fake), fake
}

// GetTimeNow returns the current time in UTC.
func (s *Service) GetTimeNow() time.Time {
	return s.clock.Now().UTC()
}

// Clock exposes the underlying clock for tickers and timers.
func (s *Service) Clock() clockwork.Clock {
	return s.clock
}
