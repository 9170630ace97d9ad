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

// Package checkpoint collects the state of every engine into a single
// versioned payload and restores it in dependency order.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"

	"code.dibs.finance/dibs/core/types"
	vgcrypto "code.dibs.finance/dibs/libs/crypto"

	"github.com/ethereum/go-ethereum/common"
)

// Version of the checkpoint payload. Loading any other version fails, the
// storage layer migrates older payloads first.
const Version uint32 = 1

var (
	ErrUnknownCheckpointName      = errors.New("component for checkpoint not registered")
	ErrComponentWithDuplicateName = errors.New("multiple components with the same name")
	ErrInvalidCheckpointHash      = errors.New("checkpoint hash does not match its content")
	ErrUnsupportedVersion         = errors.New("unsupported checkpoint version")

	cpOrder = []types.CheckpointName{
		types.AccessCheckpoint,   // every engine checks roles
		types.TokensCheckpoint,   // balances back the accounting
		types.ReferralCheckpoint, // the accountant resolves referrers
		types.DibsCheckpoint,
		types.PrizesCheckpoint, // shared by the lottery and the leaderboard
		types.LotteryCheckpoint,
		types.LeaderboardCheckpoint,
		types.GatewayCheckpoint,
		types.PairRewardCheckpoint,
		types.RepositoryCheckpoint,
	}
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.dibs.finance/dibs/core/checkpoint State

// State is implemented by every engine holding state.
type State interface {
	Name() types.CheckpointName
	Checkpoint() ([]byte, error)
	Load(checkpoint []byte) error
}

// Snapshot is a full checkpoint, State is keyed by component name.
type Snapshot struct {
	Version uint32                                   `json:"version"`
	Hash    common.Hash                              `json:"hash"`
	State   map[types.CheckpointName]json.RawMessage `json:"state"`
}

// ComputeHash hashes the payloads in load order.
func (s *Snapshot) ComputeHash() common.Hash {
	parts := make([][]byte, 0, 2*len(s.State))
	for _, k := range cpOrder {
		data, ok := s.State[k]
		if !ok {
			continue
		}
		parts = append(parts, []byte(k), data)
	}
	return vgcrypto.Keccak256(parts...)
}

func (s *Snapshot) Validate() error {
	if s.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	if s.ComputeHash() != s.Hash {
		return ErrInvalidCheckpointHash
	}
	return nil
}

type Engine struct {
	components map[types.CheckpointName]State
}

func New(components ...State) (*Engine, error) {
	e := &Engine{
		components: make(map[types.CheckpointName]State, len(components)),
	}
	for _, c := range components {
		if err := e.addComponent(c); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Add registers components after the engine was created.
func (e *Engine) Add(comps ...State) error {
	for _, c := range comps {
		if err := e.addComponent(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) addComponent(comp State) error {
	name := comp.Name()
	if !knownName(name) {
		return fmt.Errorf("%w: %s", ErrUnknownCheckpointName, name)
	}
	c, ok := e.components[name]
	if !ok {
		e.components[name] = comp
		return nil
	}
	if c != comp {
		return fmt.Errorf("%w: %s", ErrComponentWithDuplicateName, name)
	}
	return nil
}

// Checkpoint returns the state of every registered component.
func (e *Engine) Checkpoint() (*Snapshot, error) {
	snap := &Snapshot{
		Version: Version,
		State:   make(map[types.CheckpointName]json.RawMessage, len(e.components)),
	}
	for _, k := range cpOrder {
		comp, ok := e.components[k]
		if !ok {
			continue
		}
		data, err := comp.Checkpoint()
		if err != nil {
			return nil, fmt.Errorf("failed to generate checkpoint of %s: %w", k, err)
		}
		snap.State[k] = data
	}
	snap.Hash = snap.ComputeHash()
	return snap, nil
}

// Load restores the components in dependency order. Components missing from
// the snapshot keep their state.
func (e *Engine) Load(snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	for k := range snap.State {
		if _, ok := e.components[k]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCheckpointName, k)
		}
	}
	for _, k := range cpOrder {
		data, ok := snap.State[k]
		if !ok || len(data) == 0 {
			continue
		}
		if err := e.components[k].Load(data); err != nil {
			return fmt.Errorf("failed to load checkpoint of %s: %w", k, err)
		}
	}
	return nil
}

func knownName(name types.CheckpointName) bool {
	for _, k := range cpOrder {
		if k == name {
			return true
		}
	}
	return false
}
