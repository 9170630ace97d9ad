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

// Package erc20 keeps the token balances the engines pay rewards with.
package erc20

import (
	"context"
	"fmt"

	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"
)

const namedLogger = "erc20"

var (
	ErrInsufficientBalance = func(token, holder types.Address, balance, required *num.Uint) error {
		return fmt.Errorf("%w: %s holds %s of %s, %s required", types.ErrTransferFailed, holder.Hex(), balance, token.Hex(), required)
	}

	ErrInsufficientAllowance = func(token, owner, spender types.Address, allowance, required *num.Uint) error {
		return fmt.Errorf("%w: %s allowed %s to spend %s of %s, %s required", types.ErrTransferFailed, owner.Hex(), spender.Hex(), allowance, token.Hex(), required)
	}

	ErrTransferToZeroAddress = fmt.Errorf("%w: transfer to the zero address", types.ErrTransferFailed)
)

// Token describes a registered token.
type Token struct {
	Address  types.Address `json:"address"`
	Symbol   string        `json:"symbol"`
	Decimals uint8         `json:"decimals"`
}

// Ledger is a multi token book of balances and allowances.
type Ledger struct {
	log *logging.Logger

	tokens map[types.Address]Token
	// token -> holder -> balance
	balances map[types.Address]map[types.Address]*num.Uint
	// token -> owner -> spender -> allowance
	allowances map[types.Address]map[types.Address]map[types.Address]*num.Uint
}

func NewLedger(log *logging.Logger) *Ledger {
	l := &Ledger{
		log: log.Named(namedLogger),
	}
	l.reset()
	return l
}

func (l *Ledger) reset() {
	l.tokens = map[types.Address]Token{}
	l.balances = map[types.Address]map[types.Address]*num.Uint{}
	l.allowances = map[types.Address]map[types.Address]map[types.Address]*num.Uint{}
}

func (l *Ledger) RegisterToken(token Token) {
	l.tokens[token.Address] = token
}

func (l *Ledger) Token(addr types.Address) (Token, bool) {
	t, ok := l.tokens[addr]
	return t, ok
}

// Format renders amount in units of the token, unknown tokens have no
// decimals.
func (l *Ledger) Format(token types.Address, amount *num.Uint) string {
	if amount == nil {
		return "0"
	}
	return num.Units(amount, l.tokens[token].Decimals).String()
}

func (l *Ledger) Mint(token, to types.Address, amount *num.Uint) {
	bal := l.balance(token, to)
	bal.Add(bal, amount)
}

func (l *Ledger) Approve(token, owner, spender types.Address, amount *num.Uint) {
	if _, ok := l.allowances[token]; !ok {
		l.allowances[token] = map[types.Address]map[types.Address]*num.Uint{}
	}
	if _, ok := l.allowances[token][owner]; !ok {
		l.allowances[token][owner] = map[types.Address]*num.Uint{}
	}
	l.allowances[token][owner][spender] = amount.Clone()
}

func (l *Ledger) BalanceOf(token, holder types.Address) *num.Uint {
	if bal, ok := l.balances[token][holder]; ok {
		return bal.Clone()
	}
	return num.UintZero()
}

func (l *Ledger) Allowance(token, owner, spender types.Address) *num.Uint {
	if a, ok := l.allowances[token][owner][spender]; ok {
		return a.Clone()
	}
	return num.UintZero()
}

// Transfer applies all the transfers or none of them.
func (l *Ledger) Transfer(ctx context.Context, transfers ...types.Transfer) error {
	required := map[types.Address]map[types.Address]*num.Uint{}
	for _, t := range transfers {
		if t.To == types.ZeroAddress {
			return ErrTransferToZeroAddress
		}
		if _, ok := required[t.Token]; !ok {
			required[t.Token] = map[types.Address]*num.Uint{}
		}
		r, ok := required[t.Token][t.From]
		if !ok {
			r = num.UintZero()
			required[t.Token][t.From] = r
		}
		r.Add(r, t.Amount)
	}
	for token, holders := range required {
		for holder, amount := range holders {
			if bal := l.BalanceOf(token, holder); bal.LT(amount) {
				return ErrInsufficientBalance(token, holder, bal, amount)
			}
		}
	}

	for _, t := range transfers {
		from := l.balance(t.Token, t.From)
		from.Sub(from, t.Amount)
		to := l.balance(t.Token, t.To)
		to.Add(to, t.Amount)
		l.log.Debug("tokens transferred",
			logging.Address("token", t.Token),
			logging.Address("from", t.From),
			logging.Address("to", t.To),
			logging.BigUint("amount", t.Amount),
		)
	}
	return nil
}

// TransferFrom moves tokens on behalf of their owner, consuming the
// allowance granted to the spender.
func (l *Ledger) TransferFrom(ctx context.Context, spender types.Address, t types.Transfer) error {
	allowance := l.Allowance(t.Token, t.From, spender)
	if spender != t.From && allowance.LT(t.Amount) {
		return ErrInsufficientAllowance(t.Token, t.From, spender, allowance, t.Amount)
	}
	if err := l.Transfer(ctx, t); err != nil {
		return err
	}
	if spender != t.From {
		l.Approve(t.Token, t.From, spender, allowance.Sub(allowance, t.Amount))
	}
	return nil
}

func (l *Ledger) balance(token, holder types.Address) *num.Uint {
	if _, ok := l.balances[token]; !ok {
		l.balances[token] = map[types.Address]*num.Uint{}
	}
	bal, ok := l.balances[token][holder]
	if !ok {
		bal = num.UintZero()
		l.balances[token][holder] = bal
	}
	return bal
}
