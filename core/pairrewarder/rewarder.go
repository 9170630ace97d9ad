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

package pairrewarder

import (
	"context"
	"fmt"

	"code.dibs.finance/dibs/core/access"
	"code.dibs.finance/dibs/core/leaderboard"
	"code.dibs.finance/dibs/core/prizes"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/logging"
)

// Rewarder is a leaderboard bound to a trading pair. It holds its own prizes
// and its own roles, the ranking is still attested by the oracle relay of the
// accountant.
type Rewarder struct {
	*leaderboard.Engine

	address    types.Address
	pair       types.Address
	version    string
	accountant Accountant
	roles      *access.Engine
	prizes     *prizes.Ledger
}

func (f *Factory) newRewarder(address, pair types.Address, version string) *Rewarder {
	log := f.log.With(logging.Address("rewarder", address))
	roles := access.NewEngine(f.broker)
	ledger := prizes.New(log, f.broker, f.tokens, address)
	return &Rewarder{
		Engine:     leaderboard.NewEngine(log, f.broker, f.timeService, f.accountant, roles, ledger),
		address:    address,
		pair:       pair,
		version:    version,
		accountant: f.accountant,
		roles:      roles,
		prizes:     ledger,
	}
}

func (r *Rewarder) Address() types.Address {
	return r.address
}

func (r *Rewarder) Pair() types.Address {
	return r.pair
}

func (r *Rewarder) Version() string {
	return r.version
}

// Roles returns the access table of the rewarder, its admins grant the
// setters allowed to publish reward tables.
func (r *Rewarder) Roles() *access.Engine {
	return r.roles
}

// Prizes holds the rank rewards won on the leaderboard of the pair.
func (r *Rewarder) Prizes() *prizes.Ledger {
	return r.prizes
}

// SetTopReferrers ranks the referrers of the pair for a day that is over.
func (r *Rewarder) SetTopReferrers(ctx context.Context, caller types.Address, day uint64, referrers []types.Address) error {
	if caller != r.accountant.MuonInterface() {
		return fmt.Errorf("%w: %s", types.ErrOnlyMuonInterface, caller.Hex())
	}
	return r.Engine.SetTopReferrers(ctx, caller, day, referrers)
}
