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

package events

import (
	"context"
)

type Type int

// Event is a notification emitted by an engine after a state change.
type Event interface {
	Type() Type
	Context() context.Context
	Sequence() uint64
	SetSequence(uint64)
}

const (
	// All is used by subscribers to receive every event, it has no payload.
	All Type = iota
	RoleGrantedEvent
	RoleRevokedEvent
	CodeRegisteredEvent
	ParentSetEvent
	RewardedEvent
	ClaimedEvent
	BlacklistUpdatedEvent
	SettingUpdatedEvent
	RoundWinnersSetEvent
	TopReferrersSetEvent
	LeaderBoardUpdatedEvent
	PrizeClaimedEvent
	RequestConsumedEvent
	PairRewarderDeployedEvent
	PairRewarderUpgradedEvent
	ProjectAddedEvent
	ProjectUpdatedEvent
	SeedRequestedEvent
)

var eventStrings = map[Type]string{
	All:                       "ALL",
	RoleGrantedEvent:          "RoleGranted",
	RoleRevokedEvent:          "RoleRevoked",
	CodeRegisteredEvent:       "CodeRegistered",
	ParentSetEvent:            "ParentSet",
	RewardedEvent:             "Rewarded",
	ClaimedEvent:              "Claimed",
	BlacklistUpdatedEvent:     "BlacklistUpdated",
	SettingUpdatedEvent:       "SettingUpdated",
	RoundWinnersSetEvent:      "RoundWinnersSet",
	TopReferrersSetEvent:      "TopReferrersSet",
	LeaderBoardUpdatedEvent:   "LeaderBoardUpdated",
	PrizeClaimedEvent:         "PrizeClaimed",
	RequestConsumedEvent:      "RequestConsumed",
	PairRewarderDeployedEvent: "PairRewarderDeployed",
	PairRewarderUpgradedEvent: "PairRewarderUpgraded",
	ProjectAddedEvent:         "ProjectAdded",
	ProjectUpdatedEvent:       "ProjectUpdated",
	SeedRequestedEvent:        "SeedRequested",
}

// Base common denominator all event-bus events share
type Base struct {
	ctx context.Context
	seq uint64
	et  Type
}

func newBase(ctx context.Context, t Type) *Base {
	return &Base{
		ctx: ctx,
		et:  t,
	}
}

func (b Base) Context() context.Context {
	return b.ctx
}

func (b Base) Type() Type {
	return b.et
}

// Sequence is the position of the event in the stream of the broker.
func (b Base) Sequence() uint64 {
	return b.seq
}

func (b *Base) SetSequence(seq uint64) {
	b.seq = seq
}

func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}

// TryFromString returns the event type for a given string, this is used by
// the API to filter the events to stream.
func TryFromString(s string) (*Type, bool) {
	for k, v := range eventStrings {
		if v == s {
			return &k, true
		}
	}
	return nil, false
}
