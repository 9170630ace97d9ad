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

// Package prizes holds the balances won in lotteries and leaderboards until
// their winners claim them.
package prizes

import (
	"context"
	"fmt"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"
)

const namedLogger = "prizes"

var (
	ErrNotWinner = func(winner, token types.Address) error {
		return fmt.Errorf("%w: %s never won %s", types.ErrNotWinner, winner.Hex(), token.Hex())
	}

	ErrAlreadyClaimed = func(winner, token types.Address) error {
		return fmt.Errorf("%w: %s has no %s left to claim", types.ErrAlreadyClaimed, winner.Hex(), token.Hex())
	}

	ErrPrizeOverflow = func(winner, token types.Address) error {
		return fmt.Errorf("%w: prize of %s in %s", types.ErrBalanceOverflow, winner.Hex(), token.Hex())
	}
)

type Ledger struct {
	log    *logging.Logger
	broker Broker
	tokens Tokens

	// self holds the prizes, it is also the source of the claim events.
	self types.Address

	tokensOwned map[types.Address][]types.Address
	// address -> token -> balance
	balances map[types.Address]map[types.Address]*num.Uint
}

func New(log *logging.Logger, broker Broker, tokens Tokens, self types.Address) *Ledger {
	l := &Ledger{
		log:    log.Named(namedLogger),
		broker: broker,
		tokens: tokens,
		self:   self,
	}
	l.reset()
	return l
}

func (l *Ledger) reset() {
	l.tokensOwned = map[types.Address][]types.Address{}
	l.balances = map[types.Address]map[types.Address]*num.Uint{}
}

func (l *Ledger) Self() types.Address {
	return l.self
}

// Deposit credits the prizes to their winners. Nothing is credited when one
// of the balances would overflow.
func (l *Ledger) Deposit(prizes ...types.Prize) error {
	totals := map[types.Address]map[types.Address]*num.Uint{}
	for _, p := range prizes {
		if p.Amount.IsZero() {
			continue
		}
		if _, ok := totals[p.Winner]; !ok {
			totals[p.Winner] = map[types.Address]*num.Uint{}
		}
		total, ok := totals[p.Winner][p.Token]
		if !ok {
			total = l.Balance(p.Winner, p.Token)
			totals[p.Winner][p.Token] = total
		}
		if _, overflow := total.AddOverflow(total, p.Amount); overflow {
			return ErrPrizeOverflow(p.Winner, p.Token)
		}
	}

	for _, p := range prizes {
		if p.Amount.IsZero() {
			continue
		}
		l.credit(p.Winner, p.Token, p.Amount)
	}
	return nil
}

func (l *Ledger) credit(winner, token types.Address, amount *num.Uint) {
	if _, ok := l.balances[winner]; !ok {
		l.balances[winner] = map[types.Address]*num.Uint{}
	}
	bal, ok := l.balances[winner][token]
	if !ok {
		bal = num.UintZero()
		l.balances[winner][token] = bal
	}
	bal.Add(bal, amount)

	for _, t := range l.tokensOwned[winner] {
		if t == token {
			return
		}
	}
	l.tokensOwned[winner] = append(l.tokensOwned[winner], token)
}

func (l *Ledger) Balance(winner, token types.Address) *num.Uint {
	if bal, ok := l.balances[winner][token]; ok {
		return bal.Clone()
	}
	return num.UintZero()
}

// UserTokensAndBalance returns every token ever won by the winner, in the
// order they were first won, with the balance left to claim.
func (l *Ledger) UserTokensAndBalance(winner types.Address) []types.TokenBalance {
	out := make([]types.TokenBalance, 0, len(l.tokensOwned[winner]))
	for _, t := range l.tokensOwned[winner] {
		out = append(out, types.TokenBalance{Token: t, Amount: l.Balance(winner, t)})
	}
	return out
}

// ClaimReward pays out every non zero balance of the caller in a single
// batch. Claiming with nothing left is a no-op.
func (l *Ledger) ClaimReward(ctx context.Context, caller, to types.Address) (err error) {
	defer func() { metrics.CallCounterInc("claim_prize", err) }()

	claimed := []types.TokenBalance{}
	transfers := []types.Transfer{}
	for _, t := range l.tokensOwned[caller] {
		bal := l.Balance(caller, t)
		if bal.IsZero() {
			continue
		}
		claimed = append(claimed, types.TokenBalance{Token: t, Amount: bal})
		transfers = append(transfers, types.Transfer{
			Token:  t,
			From:   l.self,
			To:     to,
			Amount: bal.Clone(),
		})
	}
	if len(transfers) == 0 {
		return nil
	}

	if err := l.tokens.Transfer(ctx, transfers...); err != nil {
		l.log.Warn("could not pay out prizes",
			logging.Address("winner", caller),
			logging.Error(err),
		)
		return err
	}
	for _, c := range claimed {
		l.balances[caller][c.Token] = num.UintZero()
	}

	l.log.Debug("prizes claimed",
		logging.Address("winner", caller),
		logging.Address("to", to),
		logging.Int("tokens", len(claimed)),
	)
	metrics.ClaimCounterInc("prize")
	l.broker.Send(events.NewPrizeClaimed(ctx, l.self, caller, to, claimed))
	return nil
}

// ClaimToken pays out the balance of a single token. Unlike ClaimReward it
// fails when the caller never won the token or already claimed all of it.
func (l *Ledger) ClaimToken(ctx context.Context, caller, token, to types.Address) (err error) {
	defer func() { metrics.CallCounterInc("claim_prize_token", err) }()

	bal, ok := l.balances[caller][token]
	if !ok {
		return ErrNotWinner(caller, token)
	}
	if bal.IsZero() {
		return ErrAlreadyClaimed(caller, token)
	}
	amount := bal.Clone()
	if err := l.tokens.Transfer(ctx, types.Transfer{Token: token, From: l.self, To: to, Amount: amount}); err != nil {
		return err
	}
	l.balances[caller][token] = num.UintZero()

	metrics.ClaimCounterInc("prize")
	l.broker.Send(events.NewPrizeClaimed(ctx, l.self, caller, to, []types.TokenBalance{{Token: token, Amount: amount.Clone()}}))
	return nil
}
