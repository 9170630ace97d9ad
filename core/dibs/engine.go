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

// Package dibs accrues the fees of referred trades along the referral chain
// and pays them out on claim.
package dibs

import (
	"context"
	"fmt"
	"time"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/rounds"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"
)

const namedLogger = "dibs"

var (
	ErrBalanceTooLow = func(user, token types.Address, available, requested *num.Uint) error {
		return fmt.Errorf("%w: %s can claim %s of %s, %s requested", types.ErrBalanceTooLow, user.Hex(), available, token.Hex(), requested)
	}

	ErrBlacklisted = func(addr types.Address) error {
		return fmt.Errorf("%w: %s", types.ErrBlacklisted, addr.Hex())
	}

	ErrNotMuonInterface = func(caller types.Address) error {
		return fmt.Errorf("%w: %s", types.ErrNotMuonInterface, caller.Hex())
	}

	ErrBalanceOverflow = func(what string, addr, token types.Address) error {
		return fmt.Errorf("%w: %s of %s in %s", types.ErrBalanceOverflow, what, addr.Hex(), token.Hex())
	}
)

type Engine struct {
	log         *logging.Logger
	broker      Broker
	timeService TimeService
	tokens      Tokens
	registry    Registry
	roles       Roles

	// self is the address holding the rewards until they are claimed.
	self types.Address

	percentages      types.Percentages
	tierToPercentage map[uint32]uint32
	tierToTickets    map[uint32]uint64
	referrerTier     map[types.Address]uint32
	userTier         map[types.Address]uint32

	// token -> address -> amount
	accBalance     map[types.Address]map[types.Address]*num.Uint
	claimedBalance map[types.Address]map[types.Address]*num.Uint
	userTokens     map[types.Address][]types.Address

	totalReferredVolumeParent      map[types.Address]map[types.Address]*num.Uint
	totalReferredVolumeGrandparent map[types.Address]map[types.Address]*num.Uint
	totalGeneratedVolume           map[types.Address]map[types.Address]*num.Uint

	// round -> address -> tickets
	userLotteryTickets map[uint64]map[types.Address]uint64
	totalRoundTickets  map[uint64]uint64
	userLotteryRounds  map[types.Address][]uint64

	blacklisted   map[types.Address]struct{}
	muonInterface types.Address
	schedule      rounds.Schedule
}

func NewEngine(
	log *logging.Logger,
	broker Broker,
	timeService TimeService,
	tokens Tokens,
	registry Registry,
	roles Roles,
	self types.Address,
	schedule rounds.Schedule,
) *Engine {
	e := &Engine{
		log:         log.Named(namedLogger),
		broker:      broker,
		timeService: timeService,
		tokens:      tokens,
		registry:    registry,
		roles:       roles,
		self:        self,
		schedule:    schedule,
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.percentages = types.DefaultPercentages()
	e.tierToPercentage = map[uint32]uint32{}
	e.tierToTickets = map[uint32]uint64{}
	e.referrerTier = map[types.Address]uint32{}
	e.userTier = map[types.Address]uint32{}
	e.accBalance = map[types.Address]map[types.Address]*num.Uint{}
	e.claimedBalance = map[types.Address]map[types.Address]*num.Uint{}
	e.userTokens = map[types.Address][]types.Address{}
	e.totalReferredVolumeParent = map[types.Address]map[types.Address]*num.Uint{}
	e.totalReferredVolumeGrandparent = map[types.Address]map[types.Address]*num.Uint{}
	e.totalGeneratedVolume = map[types.Address]map[types.Address]*num.Uint{}
	e.userLotteryTickets = map[uint64]map[types.Address]uint64{}
	e.totalRoundTickets = map[uint64]uint64{}
	e.userLotteryRounds = map[types.Address][]uint64{}
	e.blacklisted = map[types.Address]struct{}{}
}

// Reward splits the reward of a trade along the referral chain of the trader
// and pulls it from the router.
func (e *Engine) Reward(
	ctx context.Context,
	caller, trader types.Address,
	refereeCode types.Code,
	totalFees, volume *num.Uint,
	token types.Address,
) error {
	defer metrics.EngineTimeObserve(namedLogger, "reward", time.Now())

	if err := e.roles.Require(types.RoleRouter, caller); err != nil {
		return err
	}

	root := e.registry.Root()
	referrer := e.registry.ResolveReferrer(refereeCode)
	grandparent := root
	if referrer != root {
		if p := e.registry.Parent(referrer); p != types.ZeroAddress {
			grandparent = p
		}
	}

	totalReward := num.SharePPM(totalFees, uint64(e.tierToPercentage[e.referrerTier[referrer]]))
	refereeCut, grandparentCut, platformCut, parentsCut := e.split(totalReward, referrer == root)

	cuts := splitCuts{}
	cuts.add(trader, refereeCut)
	cuts.add(referrer, parentsCut)
	cuts.add(grandparent, grandparentCut)
	cuts.add(root, platformCut)
	for addr, amount := range cuts {
		if overflows(e.accBalance, token, addr, amount) {
			return ErrBalanceOverflow("balance", addr, token)
		}
	}
	switch {
	case overflows(e.totalReferredVolumeParent, token, referrer, volume):
		return ErrBalanceOverflow("referred volume", referrer, token)
	case overflows(e.totalReferredVolumeGrandparent, token, grandparent, volume):
		return ErrBalanceOverflow("grandparent volume", grandparent, token)
	case overflows(e.totalGeneratedVolume, token, trader, volume):
		return ErrBalanceOverflow("generated volume", trader, token)
	}

	// the reward is pulled first, nothing is recorded if it fails
	if !totalReward.IsZero() {
		if err := e.tokens.TransferFrom(ctx, caller, types.Transfer{
			Token:  token,
			From:   caller,
			To:     e.self,
			Amount: totalReward,
		}); err != nil {
			return err
		}
	}

	e.registry.BindParentIfUnset(ctx, trader, referrer)

	e.credit(token, trader, refereeCut)
	e.credit(token, referrer, parentsCut)
	e.credit(token, grandparent, grandparentCut)
	e.credit(token, root, platformCut)

	addTo(e.totalReferredVolumeParent, token, referrer, volume)
	addTo(e.totalReferredVolumeGrandparent, token, grandparent, volume)
	addTo(e.totalGeneratedVolume, token, trader, volume)

	now := e.timeService.GetTimeNow()
	round := e.schedule.RoundAt(now)
	tickets := e.tierToTickets[e.userTier[trader]]
	e.assignTickets(round, trader, tickets)

	e.log.Debug("trade rewarded",
		logging.Address("trader", trader),
		logging.Address("referrer", referrer),
		logging.Address("token", token),
		logging.BigUint("total-reward", totalReward),
		logging.Uint64("round", round),
	)
	metrics.RewardCounterInc(token.Hex())

	e.broker.Send(events.NewRewarded(ctx, events.Rewarded{
		Trader:          trader,
		Referrer:        referrer,
		Grandparent:     grandparent,
		Token:           token,
		TotalFees:       totalFees.Clone(),
		Volume:          volume.Clone(),
		TotalReward:     totalReward,
		RefereeCut:      refereeCut,
		ReferrerCut:     parentsCut,
		GrandparentCut:  grandparentCut,
		PlatformCut:     platformCut,
		Round:           round,
		TicketsAssigned: tickets,
	}))
	return nil
}

// split returns the referee, grandparent, platform and referrer cuts. The
// referrer gets the remainder so the cuts always sum to the total.
func (e *Engine) split(total *num.Uint, referrerIsRoot bool) (referee, grandparent, platform, parents *num.Uint) {
	if referrerIsRoot {
		return num.UintZero(), num.UintZero(), num.UintZero(), total.Clone()
	}
	referee = num.SharePPM(total, uint64(e.percentages.Referee))
	grandparent = num.SharePPM(total, uint64(e.percentages.Grandparent))
	platform = num.SharePPM(total, uint64(e.percentages.Platform))
	parents = total.Clone()
	parents.Sub(parents, num.Sum(referee, grandparent, platform))
	return referee, grandparent, platform, parents
}

func (e *Engine) credit(token, to types.Address, amount *num.Uint) {
	if amount.IsZero() {
		return
	}
	addTo(e.accBalance, token, to, amount)
	for _, t := range e.userTokens[to] {
		if t == token {
			return
		}
	}
	e.userTokens[to] = append(e.userTokens[to], token)
}

func (e *Engine) assignTickets(round uint64, trader types.Address, tickets uint64) {
	if _, ok := e.userLotteryTickets[round]; !ok {
		e.userLotteryTickets[round] = map[types.Address]uint64{}
	}
	current, seen := e.userLotteryTickets[round][trader]
	e.userLotteryTickets[round][trader] = current + tickets
	e.totalRoundTickets[round] += tickets
	if !seen {
		e.userLotteryRounds[trader] = append(e.userLotteryRounds[trader], round)
	}
}

func addTo(m map[types.Address]map[types.Address]*num.Uint, token, addr types.Address, amount *num.Uint) {
	if _, ok := m[token]; !ok {
		m[token] = map[types.Address]*num.Uint{}
	}
	v, ok := m[token][addr]
	if !ok {
		v = num.UintZero()
		m[token][addr] = v
	}
	v.Add(v, amount)
}

func overflows(m map[types.Address]map[types.Address]*num.Uint, token, addr types.Address, amount *num.Uint) bool {
	_, overflow := num.UintZero().AddOverflow(get(m, token, addr), amount)
	return overflow
}

// splitCuts sums the cuts of a reward per beneficiary, a single address can
// receive more than one cut.
type splitCuts map[types.Address]*num.Uint

func (c splitCuts) add(addr types.Address, amount *num.Uint) {
	if v, ok := c[addr]; ok {
		v.Add(v, amount)
		return
	}
	c[addr] = amount.Clone()
}

func get(m map[types.Address]map[types.Address]*num.Uint, token, addr types.Address) *num.Uint {
	if v, ok := m[token][addr]; ok {
		return v.Clone()
	}
	return num.UintZero()
}
