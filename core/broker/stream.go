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

package broker

import (
	"sync"

	"code.dibs.finance/dibs/core/events"
)

// Stream forwards the events sent on the broker to a channel. A stream
// whose consumer falls behind by more than its buffer is closed, the
// consumer resumes from the history.
type Stream struct {
	mu     sync.Mutex
	types  []events.Type
	ch     chan events.Event
	closed bool
}

func NewStream(buffer int, types ...events.Type) *Stream {
	if buffer <= 0 {
		buffer = 1
	}
	return &Stream{
		types: types,
		ch:    make(chan events.Event, buffer),
	}
}

func (s *Stream) Push(evts ...events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for _, e := range evts {
		select {
		case s.ch <- e:
		default:
			s.closed = true
			close(s.ch)
			return
		}
	}
}

func (s *Stream) Types() []events.Type {
	return s.types
}

// C is closed when the stream overflows or is closed.
func (s *Stream) C() <-chan events.Event {
	return s.ch
}

func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
