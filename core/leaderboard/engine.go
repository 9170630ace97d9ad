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

// Package leaderboard rewards the top referrers of every day from a
// versioned sequence of reward tables.
package leaderboard

import (
	"context"
	"fmt"
	"sort"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"
)

const namedLogger = "leaderboard"

var (
	ErrDayNotOver = func(day, active uint64) error {
		return fmt.Errorf("%w: day %d, active day is %d", types.ErrDayNotOver, day, active)
	}

	ErrDayMustBeGreaterThanLastUpdatedDay = func(day, last uint64) error {
		return fmt.Errorf("%w: got %d, last activation day is %d", types.ErrDayMustBeGreaterThanLastUpdatedDay, day, last)
	}

	ErrNoLeaderBoardData = func(day uint64) error {
		return fmt.Errorf("%w: no leader board active on day %d", types.ErrNoLeaderBoardData, day)
	}

	ErrTooManyWinners = func(got int, max uint32) error {
		return fmt.Errorf("%w: got %d, leader board has %d ranks", types.ErrTooManyWinners, got, max)
	}
)

type Engine struct {
	log         *logging.Logger
	broker      Broker
	timeService TimeService
	accountant  Accountant
	roles       Roles
	prizes      Prizes

	// sorted by strictly increasing activation day
	leaderBoards []types.LeaderBoard
	topReferrers map[uint64][]types.Address
	// a day can be decided with no referrers at all
	decided     map[uint64]struct{}
	winningDays map[types.Address][]uint64
}

func NewEngine(
	log *logging.Logger,
	broker Broker,
	timeService TimeService,
	accountant Accountant,
	roles Roles,
	prizes Prizes,
) *Engine {
	e := &Engine{
		log:         log.Named(namedLogger),
		broker:      broker,
		timeService: timeService,
		accountant:  accountant,
		roles:       roles,
		prizes:      prizes,
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.leaderBoards = nil
	e.topReferrers = map[uint64][]types.Address{}
	e.decided = map[uint64]struct{}{}
	e.winningDays = map[types.Address][]uint64{}
}

// UpdateLeaderBoardData appends a reward table, rankRewardAmount is indexed
// by token then by rank.
func (e *Engine) UpdateLeaderBoardData(
	ctx context.Context,
	caller types.Address,
	activationDay uint64,
	winnersCount uint32,
	rewardTokens []types.Address,
	rankRewardAmount [][]*num.Uint,
) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	if n := len(e.leaderBoards); n > 0 && activationDay <= e.leaderBoards[n-1].ActivationDay {
		return ErrDayMustBeGreaterThanLastUpdatedDay(activationDay, e.leaderBoards[n-1].ActivationDay)
	}
	if len(rewardTokens) != len(rankRewardAmount) {
		return fmt.Errorf("%w: %d tokens for %d reward rows", types.ErrInvalidInput, len(rewardTokens), len(rankRewardAmount))
	}
	for i, row := range rankRewardAmount {
		if uint64(len(row)) != uint64(winnersCount) {
			return fmt.Errorf("%w: token %d has %d ranks, expected %d", types.ErrInvalidInput, i, len(row), winnersCount)
		}
	}

	lb := types.LeaderBoard{
		ActivationDay:    activationDay,
		Count:            winnersCount,
		RewardTokens:     rewardTokens,
		RankRewardAmount: rankRewardAmount,
	}.Clone()
	e.leaderBoards = append(e.leaderBoards, lb)

	e.log.Info("leader board updated",
		logging.Uint64("activation-day", activationDay),
		logging.Uint32("winners", winnersCount),
		logging.Int("tokens", len(rewardTokens)),
	)
	e.broker.Send(events.NewLeaderBoardUpdated(ctx, e.prizes.Self(), lb))
	return nil
}

// FindLeaderBoardIndex returns the index of the table with the greatest
// activation day lower or equal to day.
func (e *Engine) FindLeaderBoardIndex(day uint64) (int, error) {
	// first table activated after day
	i := sort.Search(len(e.leaderBoards), func(i int) bool {
		return e.leaderBoards[i].ActivationDay > day
	})
	if i == 0 {
		return 0, ErrNoLeaderBoardData(day)
	}
	return i - 1, nil
}

// SetTopReferrers records the ranking of a day that is over and credits the
// referrers with the rank rewards of the table active on that day.
func (e *Engine) SetTopReferrers(ctx context.Context, caller types.Address, day uint64, referrers []types.Address) (err error) {
	defer func() { metrics.CallCounterInc("set_top_referrers", err) }()

	if caller != e.accountant.MuonInterface() {
		return fmt.Errorf("%w: %s", types.ErrNotMuonInterface, caller.Hex())
	}
	if active := e.ActiveDay(); day >= active {
		return ErrDayNotOver(day, active)
	}
	if _, ok := e.decided[day]; ok {
		return fmt.Errorf("%w: top referrers of day %d", types.ErrAlreadySet, day)
	}
	idx, err := e.FindLeaderBoardIndex(day)
	if err != nil {
		return err
	}
	lb := e.leaderBoards[idx]
	if uint64(len(referrers)) > uint64(lb.Count) {
		return ErrTooManyWinners(len(referrers), lb.Count)
	}

	prizes := make([]types.Prize, 0, len(referrers)*len(lb.RewardTokens))
	for rank, r := range referrers {
		for i, t := range lb.RewardTokens {
			prizes = append(prizes, types.Prize{Winner: r, Token: t, Amount: lb.RankRewardAmount[i][rank]})
		}
	}
	if err := e.prizes.Deposit(prizes...); err != nil {
		return err
	}
	e.decided[day] = struct{}{}
	e.topReferrers[day] = append([]types.Address(nil), referrers...)
	for _, r := range referrers {
		e.winningDays[r] = append(e.winningDays[r], day)
	}

	e.log.Info("top referrers set",
		logging.Uint64("day", day),
		logging.Int("referrers", len(referrers)),
		logging.Int("leader-board", idx),
	)
	e.broker.Send(events.NewTopReferrersSet(ctx, e.prizes.Self(), day, referrers))
	return nil
}

func (e *Engine) ClaimReward(ctx context.Context, caller, to types.Address) error {
	return e.prizes.ClaimReward(ctx, caller, to)
}

func (e *Engine) ClaimToken(ctx context.Context, caller, token, to types.Address) error {
	return e.prizes.ClaimToken(ctx, caller, token, to)
}

func (e *Engine) UserTokensAndBalance(addr types.Address) []types.TokenBalance {
	return e.prizes.UserTokensAndBalance(addr)
}

func (e *Engine) ActiveDay() uint64 {
	return e.accountant.Schedule().DayAt(e.timeService.GetTimeNow())
}

func (e *Engine) TopReferrers(day uint64) []types.Address {
	return append([]types.Address(nil), e.topReferrers[day]...)
}

func (e *Engine) IsDayDecided(day uint64) bool {
	_, ok := e.decided[day]
	return ok
}

func (e *Engine) WinningDays(addr types.Address) []uint64 {
	return append([]uint64(nil), e.winningDays[addr]...)
}

func (e *Engine) LeaderBoardsLength() int {
	return len(e.leaderBoards)
}

func (e *Engine) LeaderBoard(i int) (types.LeaderBoard, bool) {
	if i < 0 || i >= len(e.leaderBoards) {
		return types.LeaderBoard{}, false
	}
	return e.leaderBoards[i].Clone(), true
}

func (e *Engine) LatestLeaderBoard() (types.LeaderBoard, error) {
	if len(e.leaderBoards) == 0 {
		return types.LeaderBoard{}, types.ErrNoLeaderBoardData
	}
	return e.leaderBoards[len(e.leaderBoards)-1].Clone(), nil
}
