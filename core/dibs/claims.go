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

package dibs

import (
	"context"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"
)

// Claim pays out a part of the balance accrued by the caller, the ceiling is
// the locally accrued balance.
func (e *Engine) Claim(ctx context.Context, caller, token types.Address, amount *num.Uint, to types.Address) (err error) {
	defer func() { metrics.CallCounterInc("claim", err) }()

	if err := e.checkNotBlacklisted(caller, to); err != nil {
		return err
	}
	available := e.Unclaimed(token, caller)
	if amount.GT(available) {
		return ErrBalanceTooLow(caller, token, available, amount)
	}
	return e.payout(ctx, "local", caller, token, amount, to)
}

// ClaimFor pays out on behalf of a user, the ceiling is the accumulative
// balance attested by the oracle network.
func (e *Engine) ClaimFor(
	ctx context.Context,
	caller, from, token types.Address,
	amount *num.Uint,
	to types.Address,
	accumulativeBalance *num.Uint,
) (err error) {
	defer func() { metrics.CallCounterInc("claim_for", err) }()

	if caller != e.muonInterface {
		return ErrNotMuonInterface(caller)
	}
	if err := e.checkNotBlacklisted(from, to); err != nil {
		return err
	}
	claimed := get(e.claimedBalance, token, from)
	if num.Sum(claimed, amount).GT(accumulativeBalance) {
		available := num.UintZero()
		if accumulativeBalance.GT(claimed) {
			available.Sub(accumulativeBalance, claimed)
		}
		return ErrBalanceTooLow(from, token, available, amount)
	}
	return e.payout(ctx, "attested", from, token, amount, to)
}

// ClaimExcessTokens pays out the platform balance attested by the oracle
// network, it covers the tokens accrued to the platform outside of the local
// books.
func (e *Engine) ClaimExcessTokens(
	ctx context.Context,
	caller, token, to types.Address,
	accPlatformBalance, amount *num.Uint,
) (err error) {
	defer func() { metrics.CallCounterInc("claim_excess", err) }()

	if caller != e.muonInterface {
		return ErrNotMuonInterface(caller)
	}
	root := e.registry.Root()
	claimed := get(e.claimedBalance, token, root)
	if num.Sum(claimed, amount).GT(accPlatformBalance) {
		available := num.UintZero()
		if accPlatformBalance.GT(claimed) {
			available.Sub(accPlatformBalance, claimed)
		}
		return ErrBalanceTooLow(root, token, available, amount)
	}
	return e.payout(ctx, "excess", root, token, amount, to)
}

// ClaimPlatform pays out the balance accrued by the root code.
func (e *Engine) ClaimPlatform(ctx context.Context, caller, token types.Address, amount *num.Uint, to types.Address) (err error) {
	defer func() { metrics.CallCounterInc("claim_platform", err) }()

	if err := e.roles.Require(types.RolePlatform, caller); err != nil {
		return err
	}
	root := e.registry.Root()
	available := e.Unclaimed(token, root)
	if amount.GT(available) {
		return ErrBalanceTooLow(root, token, available, amount)
	}
	return e.payout(ctx, "platform", root, token, amount, to)
}

func (e *Engine) payout(ctx context.Context, kind string, user, token types.Address, amount *num.Uint, to types.Address) error {
	if err := e.tokens.Transfer(ctx, types.Transfer{
		Token:  token,
		From:   e.self,
		To:     to,
		Amount: amount.Clone(),
	}); err != nil {
		e.log.Warn("could not pay out claim",
			logging.Address("user", user),
			logging.Address("token", token),
			logging.Error(err),
		)
		return err
	}
	addTo(e.claimedBalance, token, user, amount)

	e.log.Debug("balance claimed",
		logging.String("kind", kind),
		logging.Address("user", user),
		logging.Address("token", token),
		logging.BigUint("amount", amount),
		logging.Address("to", to),
	)
	metrics.ClaimCounterInc(kind)
	e.broker.Send(events.NewClaimed(ctx, user, token, amount, to))
	return nil
}

func (e *Engine) checkNotBlacklisted(addrs ...types.Address) error {
	for _, a := range addrs {
		if _, ok := e.blacklisted[a]; ok {
			return ErrBlacklisted(a)
		}
	}
	return nil
}
