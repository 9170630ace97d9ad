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
	"sort"
	"sync"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/logging"
)

// Subscriber receives the events of the types it registered for. Push is
// called synchronously by the broker, in the order the events were sent.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/subscriber_mock.go -package mocks code.dibs.finance/dibs/core/broker Subscriber
type Subscriber interface {
	Push(evts ...events.Event)
	Types() []events.Type
}

// Broker - the base broker type
// events are numbered and dispatched in the order they are sent.
type Broker struct {
	log *logging.Logger

	mu    sync.Mutex
	seq   uint64
	subs  map[int]Subscriber
	tSubs map[events.Type]map[int]struct{}
	keys  []int
	next  int
}

// New creates a new base broker
func New(log *logging.Logger, config Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &Broker{
		log:   log,
		subs:  map[int]Subscriber{},
		tSubs: map[events.Type]map[int]struct{}{},
	}
}

// Send sends an event to all subscribers
func (b *Broker) Send(event events.Event) {
	b.mu.Lock()
	b.seq++
	event.SetSequence(b.seq)
	subs := b.getSubsByType(event.Type())
	b.mu.Unlock()

	if b.log.GetLevel() == logging.DebugLevel {
		b.log.Debug("event sent",
			logging.String("type", event.Type().String()),
			logging.Uint64("sequence", event.Sequence()),
		)
	}

	for _, s := range subs {
		s.Push(event)
	}
}

// SendBatch sends the events in order.
func (b *Broker) SendBatch(evts []events.Event) {
	for _, e := range evts {
		b.Send(e)
	}
}

// Subscribe registers a new subscriber, returning the key
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := b.getKey()
	b.subs[k] = s

	types := s.Types()
	if len(types) == 0 {
		types = []events.Type{events.All}
	}
	for _, t := range types {
		if t == events.All {
			types = []events.Type{events.All}
			break
		}
	}
	for _, t := range types {
		if _, ok := b.tSubs[t]; !ok {
			b.tSubs[t] = map[int]struct{}{}
		}
		b.tSubs[t][k] = struct{}{}
	}
	return k
}

// Unsubscribe removes subscriber from broker
// this does not change the state of the subscriber
func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[k]; !ok {
		return
	}
	delete(b.subs, k)
	for _, subs := range b.tSubs {
		delete(subs, k)
	}
	b.keys = append(b.keys, k)
}

func (b *Broker) getKey() int {
	if len(b.keys) > 0 {
		k := b.keys[0]
		b.keys = b.keys[1:] // pop first element
		return k
	}
	b.next++
	return b.next
}

// getSubsByType returns the subscribers of a type followed by the ALL
// subscribers, sorted by key so delivery order is stable.
func (b *Broker) getSubsByType(t events.Type) []Subscriber {
	keys := make([]int, 0, len(b.tSubs[t])+len(b.tSubs[events.All]))
	for k := range b.tSubs[t] {
		keys = append(keys, k)
	}
	if t != events.All {
		for k := range b.tSubs[events.All] {
			keys = append(keys, k)
		}
	}
	sort.Ints(keys)
	subs := make([]Subscriber, 0, len(keys))
	for _, k := range keys {
		subs = append(subs, b.subs[k])
	}
	return subs
}
