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

// Package pairrewarder deploys and upgrades the leaderboards rewarding the
// referrers of a single trading pair.
package pairrewarder

import (
	"context"
	"fmt"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/leaderboard"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"

	"github.com/ethereum/go-ethereum/crypto"
)

const namedLogger = "pairrewarder"

var (
	ErrUnknownRewarder = func(addr types.Address) error {
		return fmt.Errorf("%w: no pair rewarder at %s", types.ErrInvalidInput, addr.Hex())
	}

	ErrUnknownImplementation = func(version string) error {
		return fmt.Errorf("%w: unknown pair rewarder implementation %q", types.ErrInvalidInput, version)
	}
)

type Factory struct {
	log         *logging.Logger
	broker      Broker
	timeService TimeService
	accountant  Accountant
	tokens      Tokens

	self  types.Address
	nonce uint64

	template        string
	implementations map[string]Implementation

	allPairs      []types.Address
	pairRewarders map[types.Address][]types.Address
	rewarders     map[types.Address]*Rewarder
}

// NewFactory returns a factory deploying the first of the implementations,
// InitialImplementation if none are given.
func NewFactory(
	log *logging.Logger,
	broker Broker,
	timeService TimeService,
	accountant Accountant,
	tokens Tokens,
	self types.Address,
	implementations ...Implementation,
) *Factory {
	if len(implementations) == 0 {
		implementations = []Implementation{InitialImplementation}
	}
	f := &Factory{
		log:             log.Named(namedLogger),
		broker:          broker,
		timeService:     timeService,
		accountant:      accountant,
		tokens:          tokens,
		self:            self,
		template:        implementations[0].Version,
		implementations: map[string]Implementation{},
	}
	for _, impl := range implementations {
		f.implementations[impl.Version] = impl
	}
	f.reset()
	return f
}

func (f *Factory) reset() {
	f.nonce = 0
	f.allPairs = nil
	f.pairRewarders = map[types.Address][]types.Address{}
	f.rewarders = map[types.Address]*Rewarder{}
}

// RegisterImplementation makes a version available to the upgrades.
func (f *Factory) RegisterImplementation(impl Implementation) {
	f.implementations[impl.Version] = impl
}

// DeployPairRewarder creates a new rewarder for the pair. A pair can have
// any number of rewarders, each with its own prizes.
func (f *Factory) DeployPairRewarder(ctx context.Context, pair, admin, setter types.Address) (types.Address, error) {
	if pair == types.ZeroAddress {
		return types.ZeroAddress, fmt.Errorf("%w: pair", types.ErrZeroValue)
	}

	addr := crypto.CreateAddress(f.self, f.nonce)
	f.nonce++

	r := f.newRewarder(addr, pair, f.template)
	r.roles.Bootstrap(ctx, map[types.Role][]types.Address{
		types.RoleAdmin:  {admin},
		types.RoleSetter: {setter},
	})
	f.rewarders[addr] = r
	if _, ok := f.pairRewarders[pair]; !ok {
		f.allPairs = append(f.allPairs, pair)
	}
	f.pairRewarders[pair] = append(f.pairRewarders[pair], addr)

	f.log.Info("pair rewarder deployed",
		logging.Address("pair", pair),
		logging.Address("rewarder", addr),
		logging.String("version", f.template),
	)
	metrics.PairRewardersGaugeSet(len(f.rewarders))
	f.broker.Send(events.NewPairRewarderDeployed(ctx, pair, addr, f.template))
	return addr, nil
}

// UpgradePairRewarders moves the instances to another implementation,
// keeping their state. Either every instance is upgraded or none is.
func (f *Factory) UpgradePairRewarders(ctx context.Context, caller types.Address, instances []types.Address, version string) error {
	if err := f.accountant.Roles().Require(types.RoleSetter, caller); err != nil {
		return err
	}
	impl, ok := f.implementations[version]
	if !ok {
		return ErrUnknownImplementation(version)
	}

	type upgrade struct {
		rewarder *Rewarder
		state    leaderboard.State
	}
	upgrades := make([]upgrade, 0, len(instances))
	for _, addr := range instances {
		r, ok := f.rewarders[addr]
		if !ok {
			return ErrUnknownRewarder(addr)
		}
		s, err := impl.migrate(r.Engine.State())
		if err != nil {
			return fmt.Errorf("could not migrate pair rewarder %s to %s: %w", addr.Hex(), version, err)
		}
		upgrades = append(upgrades, upgrade{rewarder: r, state: s})
	}

	for _, u := range upgrades {
		if err := u.rewarder.Engine.Restore(u.state); err != nil {
			return err
		}
		from := u.rewarder.version
		u.rewarder.version = version
		f.log.Info("pair rewarder upgraded",
			logging.Address("rewarder", u.rewarder.address),
			logging.String("from", from),
			logging.String("to", version),
		)
		f.broker.Send(events.NewPairRewarderUpgraded(ctx, u.rewarder.address, from, version))
	}
	return nil
}

// SetPairRewarderTemplate changes the implementation of the next
// deployments, the existing instances are left untouched.
func (f *Factory) SetPairRewarderTemplate(ctx context.Context, caller types.Address, version string) error {
	if err := f.accountant.Roles().Require(types.RoleSetter, caller); err != nil {
		return err
	}
	if _, ok := f.implementations[version]; !ok {
		return ErrUnknownImplementation(version)
	}
	f.template = version
	f.broker.Send(events.NewSettingUpdated(ctx, namedLogger, "template", version))
	return nil
}

func (f *Factory) Template() string {
	return f.template
}

func (f *Factory) PairsLength() int {
	return len(f.allPairs)
}

func (f *Factory) AllPairs() []types.Address {
	return append([]types.Address(nil), f.allPairs...)
}

func (f *Factory) PairRewarders(pair types.Address) []types.Address {
	return append([]types.Address(nil), f.pairRewarders[pair]...)
}

func (f *Factory) PairRewardersLength(pair types.Address) int {
	return len(f.pairRewarders[pair])
}

func (f *Factory) Rewarder(addr types.Address) (*Rewarder, bool) {
	r, ok := f.rewarders[addr]
	return r, ok
}
