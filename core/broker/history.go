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

// History keeps the last events sent on the broker.
type History struct {
	mu     sync.RWMutex
	size   int
	types  []events.Type
	events []events.Event
}

func NewHistory(size int, types ...events.Type) *History {
	if size <= 0 {
		size = 1
	}
	return &History{
		size:   size,
		types:  types,
		events: make([]events.Event, 0, size),
	}
}

func (h *History) Push(evts ...events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evts...)
	if over := len(h.events) - h.size; over > 0 {
		h.events = append(h.events[:0:0], h.events[over:]...)
	}
}

func (h *History) Types() []events.Type {
	return h.types
}

// Since returns the recorded events with a sequence strictly greater than seq.
func (h *History) Since(seq uint64) []events.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := []events.Event{}
	for _, e := range h.events {
		if e.Sequence() > seq {
			out = append(out, e)
		}
	}
	return out
}
