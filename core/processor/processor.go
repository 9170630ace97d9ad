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

// Package processor serializes every call into the engines. A call reads the
// time once, runs under a single lock and is either fully applied and
// checkpointed or rolled back to the last checkpoint. Events are published
// only for applied calls.
package processor

import (
	"context"
	"sync"
	"time"

	"code.dibs.finance/dibs/core/access"
	"code.dibs.finance/dibs/core/assets/erc20"
	"code.dibs.finance/dibs/core/checkpoint"
	"code.dibs.finance/dibs/core/clock"
	"code.dibs.finance/dibs/core/dibs"
	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/leaderboard"
	"code.dibs.finance/dibs/core/lottery"
	"code.dibs.finance/dibs/core/muon"
	"code.dibs.finance/dibs/core/pairrewarder"
	"code.dibs.finance/dibs/core/prizes"
	"code.dibs.finance/dibs/core/referral"
	"code.dibs.finance/dibs/core/repository"
	"code.dibs.finance/dibs/core/storage"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"

	"github.com/pkg/errors"
)

// Engines are only reachable from within Deliver and Query.
type Engines struct {
	// Now is the time of the call.
	Now time.Time

	Roles       *access.Engine
	Tokens      *erc20.Ledger
	Registry    *referral.Engine
	Accountant  *dibs.Engine
	Prizes      *prizes.Ledger
	Lottery     *lottery.Engine
	Leaderboard *leaderboard.Engine
	Gateway     *muon.Gateway
	Relay       *muon.Relay
	Factory     *pairrewarder.Factory
	Repository  *repository.Repository
}

type Processor struct {
	log   *logging.Logger
	cfg   Config
	clock *clock.Service
	store Store

	mu  sync.Mutex
	now time.Time

	engines     *Engines
	events      *pendingEvents
	checkpoints *checkpoint.Engine
	last        *checkpoint.Snapshot
	contracts   Contracts
}

// New builds the engines and restores the latest stored checkpoint, the
// genesis state is applied when there is none. The store is optional.
func New(
	ctx context.Context,
	log *logging.Logger,
	cfg Config,
	broker Broker,
	clk *clock.Service,
	store Store,
	genesis GenesisState,
	seeds repository.SeedGenerator,
) (*Processor, error) {
	if err := genesis.Validate(); err != nil {
		return nil, err
	}

	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	p := &Processor{
		log:       log,
		cfg:       cfg,
		clock:     clk,
		store:     store,
		contracts: genesis.Contracts,
		events:    &pendingEvents{out: broker},
	}
	p.now = clk.GetTimeNow()
	broker = p.events

	c := genesis.Contracts
	roles := access.NewEngine(broker)
	tokens := erc20.NewLedger(log)
	registry := referral.NewEngine(log, broker, roles, c.Platform)
	accountant := dibs.NewEngine(log, broker, p, tokens, registry, roles, c.Dibs, genesis.RoundSchedule())
	ledger := prizes.New(log, broker, tokens, c.Lottery)
	gateway := muon.NewGateway(
		log, broker, roles,
		muon.SchnorrVerifier{}, muon.ECDSAVerifier{},
		genesis.Muon.AppID, genesis.Muon.PublicKey, genesis.Muon.Gateway,
	)
	lot := lottery.NewEngine(log, broker, p, accountant, roles, ledger, genesis.WinnersPerRound)
	board := leaderboard.NewEngine(log, broker, p, accountant, roles, ledger)
	p.engines = &Engines{
		Roles:       roles,
		Tokens:      tokens,
		Registry:    registry,
		Accountant:  accountant,
		Prizes:      ledger,
		Lottery:     lot,
		Leaderboard: board,
		Gateway:     gateway,
		Relay:       muon.NewRelay(log, c.Relay, c.Platform, gateway, roles, accountant, lot, board),
		Factory:     pairrewarder.NewFactory(log, broker, p, accountant, tokens, c.Factory),
		Repository:  repository.New(log, broker, p, roles, seeds),
	}

	p.engines.Now = p.now

	var err error
	p.checkpoints, err = checkpoint.New(
		roles, tokens, registry, accountant, ledger, lot, board, gateway,
		p.engines.Factory, p.engines.Repository,
	)
	if err != nil {
		return nil, err
	}

	restored, err := p.restore()
	if err != nil {
		return nil, err
	}
	if !restored {
		if err := p.applyGenesis(ctx, genesis); err != nil {
			return nil, err
		}
		p.events.flush()
	}
	return p, nil
}

func (p *Processor) restore() (bool, error) {
	if p.store == nil {
		return false, nil
	}
	snap, err := p.store.LatestCheckpoint()
	if errors.Is(err, storage.ErrNoCheckpoint) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "couldn't read the latest checkpoint")
	}
	if err := p.checkpoints.Load(snap); err != nil {
		return false, errors.Wrap(err, "couldn't restore the latest checkpoint")
	}
	p.last = snap
	p.log.Info("state restored", logging.String("hash", snap.Hash.Hex()))
	return true, nil
}

func (p *Processor) applyGenesis(ctx context.Context, g GenesisState) error {
	e := p.engines
	e.Roles.Bootstrap(ctx, g.Roles)
	for _, t := range g.Tokens {
		e.Tokens.RegisterToken(erc20.Token{Address: t.Address, Symbol: t.Symbol, Decimals: t.Decimals})
		for holder, amount := range t.Balances {
			e.Tokens.Mint(t.Address, holder, amount)
		}
	}
	// results attested by the network reach the engines through the relay
	if err := e.Accountant.SetMuonInterface(ctx, g.Roles[types.RoleSetter][0], g.Contracts.Relay); err != nil {
		return err
	}
	p.log.Info("genesis applied",
		logging.Address("dibs", g.Contracts.Dibs),
		logging.Address("relay", g.Contracts.Relay),
	)
	return p.commit()
}

func (p *Processor) setTime() {
	p.now = p.clock.GetTimeNow()
	p.engines.Now = p.now
}

// GetTimeNow is the time source of the engines, it is fixed for the duration
// of a call.
func (p *Processor) GetTimeNow() time.Time {
	return p.now
}

func (p *Processor) Contracts() Contracts {
	return p.contracts
}

// Deliver applies a state transition. The state is checkpointed when fn
// succeeds and restored to the last checkpoint when it fails.
func (p *Processor) Deliver(ctx context.Context, name string, fn func(ctx context.Context, e *Engines) error) (err error) {
	defer metrics.EngineTimeObserve(namedLogger, name, time.Now())
	defer func() { metrics.CallCounterInc(name, err) }()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.setTime()

	if err = fn(ctx, p.engines); err == nil {
		err = p.commit()
	}
	if err != nil {
		p.events.discard()
		if rerr := p.rollback(); rerr != nil {
			p.log.Panic("couldn't roll back a failed call",
				logging.String("call", name),
				logging.Error(rerr),
			)
		}
		p.log.Debug("call rejected", logging.String("call", name), logging.Error(err))
		return err
	}
	p.events.flush()
	return nil
}

// Query runs a read, the engines must not be mutated by fn.
func (p *Processor) Query(fn func(e *Engines)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setTime()
	fn(p.engines)
}

// LastCheckpoint returns the snapshot of the last accepted call.
func (p *Processor) LastCheckpoint() *checkpoint.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Processor) commit() error {
	snap, err := p.checkpoints.Checkpoint()
	if err != nil {
		return errors.Wrap(err, "couldn't checkpoint the state")
	}
	if p.store != nil && bool(p.cfg.Persist) {
		if err := p.store.SaveCheckpoint(snap); err != nil {
			return errors.Wrap(err, "couldn't save the checkpoint")
		}
	}
	p.last = snap
	return nil
}

func (p *Processor) rollback() error {
	if p.last == nil {
		return nil
	}
	return p.checkpoints.Load(p.last)
}

// pendingEvents holds the events of the call in progress, they only reach the
// broker once the call is committed.
type pendingEvents struct {
	out     Broker
	pending []events.Event
}

func (b *pendingEvents) Send(evt events.Event) {
	b.pending = append(b.pending, evt)
}

func (b *pendingEvents) flush() {
	pending := b.pending
	b.pending = nil
	for _, evt := range pending {
		b.out.Send(evt)
	}
}

func (b *pendingEvents) discard() {
	b.pending = nil
}
