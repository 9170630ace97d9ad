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

// Package lottery records the winners of the lottery rounds and credits
// their prizes.
package lottery

import (
	"context"
	"fmt"
	"strconv"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"
)

const namedLogger = "lottery"

var (
	ErrLotteryRoundNotOver = func(round, active uint64) error {
		return fmt.Errorf("%w: round %d, active round is %d", types.ErrLotteryRoundNotOver, round, active)
	}

	ErrLotteryRoundAlreadyOver = func(round uint64) error {
		return fmt.Errorf("%w: winners of round %d are already set", types.ErrLotteryRoundAlreadyOver, round)
	}

	ErrTooManyWinners = func(got int, max uint32) error {
		return fmt.Errorf("%w: got %d, at most %d per round", types.ErrTooManyWinners, got, max)
	}
)

type Engine struct {
	log         *logging.Logger
	broker      Broker
	timeService TimeService
	accountant  Accountant
	roles       Roles
	prizes      Prizes

	winnersPerRound uint32
	// amounts are aligned on the tokens by index
	rewardTokens  []types.Address
	rewardAmounts []*num.Uint

	roundWinners map[uint64][]types.Address
	// a round can be decided with no winners at all
	decided map[uint64]struct{}
}

func NewEngine(
	log *logging.Logger,
	broker Broker,
	timeService TimeService,
	accountant Accountant,
	roles Roles,
	prizes Prizes,
	winnersPerRound uint32,
) *Engine {
	e := &Engine{
		log:             log.Named(namedLogger),
		broker:          broker,
		timeService:     timeService,
		accountant:      accountant,
		roles:           roles,
		prizes:          prizes,
		winnersPerRound: winnersPerRound,
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.rewardTokens = nil
	e.rewardAmounts = nil
	e.roundWinners = map[uint64][]types.Address{}
	e.decided = map[uint64]struct{}{}
}

// SetRoundWinners records the winners of a round that is over and credits
// each of them with every configured reward.
func (e *Engine) SetRoundWinners(ctx context.Context, caller types.Address, round uint64, winners []types.Address) (err error) {
	defer func() { metrics.CallCounterInc("set_round_winners", err) }()

	if caller != e.accountant.MuonInterface() {
		return fmt.Errorf("%w: %s", types.ErrNotMuonInterface, caller.Hex())
	}
	now := e.timeService.GetTimeNow()
	schedule := e.accountant.Schedule()
	if !schedule.IsRoundOver(round, now) {
		return ErrLotteryRoundNotOver(round, schedule.RoundAt(now))
	}
	if uint64(len(winners)) > uint64(e.winnersPerRound) {
		return ErrTooManyWinners(len(winners), e.winnersPerRound)
	}
	if _, ok := e.decided[round]; ok {
		return ErrLotteryRoundAlreadyOver(round)
	}

	prizes := make([]types.Prize, 0, len(winners)*len(e.rewardTokens))
	for _, w := range winners {
		for i, t := range e.rewardTokens {
			prizes = append(prizes, types.Prize{Winner: w, Token: t, Amount: e.rewardAmount(i)})
		}
	}
	if err := e.prizes.Deposit(prizes...); err != nil {
		return err
	}
	e.decided[round] = struct{}{}
	e.roundWinners[round] = append([]types.Address(nil), winners...)

	e.log.Info("lottery round decided",
		logging.Uint64("round", round),
		logging.Int("winners", len(winners)),
	)
	e.broker.Send(events.NewRoundWinnersSet(ctx, round, winners))
	return nil
}

func (e *Engine) SetWinnersPerRound(ctx context.Context, caller types.Address, winners uint32) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	e.winnersPerRound = winners
	e.settingUpdated(ctx, "winners-per-round", strconv.FormatUint(uint64(winners), 10))
	return nil
}

// SetRewardTokens replaces the list of tokens paid to every winner. A token
// without an amount at its index pays nothing.
func (e *Engine) SetRewardTokens(ctx context.Context, caller types.Address, tokens []types.Address) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	e.rewardTokens = append([]types.Address(nil), tokens...)
	e.settingUpdated(ctx, "reward-tokens", strconv.Itoa(len(tokens)))
	return nil
}

func (e *Engine) SetRewardAmount(ctx context.Context, caller types.Address, amounts []*num.Uint) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	e.rewardAmounts = cloneAll(amounts)
	e.settingUpdated(ctx, "reward-amounts", strconv.Itoa(len(amounts)))
	return nil
}

// SetLotteryRewards replaces the whole reward configuration.
func (e *Engine) SetLotteryRewards(ctx context.Context, caller types.Address, tokens []types.Address, amounts []*num.Uint) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	if len(tokens) != len(amounts) {
		return fmt.Errorf("%w: %d tokens for %d amounts", types.ErrInvalidInput, len(tokens), len(amounts))
	}
	e.rewardTokens = append([]types.Address(nil), tokens...)
	e.rewardAmounts = cloneAll(amounts)
	e.settingUpdated(ctx, "lottery-rewards", strconv.Itoa(len(tokens)))
	return nil
}

func (e *Engine) ClaimReward(ctx context.Context, caller, to types.Address) error {
	return e.prizes.ClaimReward(ctx, caller, to)
}

func (e *Engine) ClaimToken(ctx context.Context, caller, token, to types.Address) error {
	return e.prizes.ClaimToken(ctx, caller, token, to)
}

func (e *Engine) UserTokensAndBalance(winner types.Address) []types.TokenBalance {
	return e.prizes.UserTokensAndBalance(winner)
}

func (e *Engine) RoundWinners(round uint64) []types.Address {
	return append([]types.Address(nil), e.roundWinners[round]...)
}

func (e *Engine) RoundWinnersCount(round uint64) int {
	return len(e.roundWinners[round])
}

func (e *Engine) IsRoundDecided(round uint64) bool {
	_, ok := e.decided[round]
	return ok
}

func (e *Engine) ActiveLotteryRound() uint64 {
	return e.accountant.Schedule().RoundAt(e.timeService.GetTimeNow())
}

func (e *Engine) WinnersPerRound() uint32 {
	return e.winnersPerRound
}

func (e *Engine) RewardTokens() []types.Address {
	return append([]types.Address(nil), e.rewardTokens...)
}

func (e *Engine) RewardAmounts() []*num.Uint {
	return cloneAll(e.rewardAmounts)
}

func (e *Engine) rewardAmount(i int) *num.Uint {
	if i < len(e.rewardAmounts) {
		return e.rewardAmounts[i].Clone()
	}
	return num.UintZero()
}

func cloneAll(amounts []*num.Uint) []*num.Uint {
	out := make([]*num.Uint, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, a.Clone())
	}
	return out
}

func (e *Engine) settingUpdated(ctx context.Context, setting, value string) {
	e.log.Debug("setting updated", logging.String("setting", setting), logging.String("value", value))
	e.broker.Send(events.NewSettingUpdated(ctx, namedLogger, setting, value))
}
