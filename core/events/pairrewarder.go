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

package events

import (
	"context"

	"code.dibs.finance/dibs/core/types"
)

type PairRewarderDeployed struct {
	*Base
	Pair     types.Address
	Instance types.Address
	Version  string
}

func NewPairRewarderDeployed(ctx context.Context, pair, instance types.Address, version string) *PairRewarderDeployed {
	return &PairRewarderDeployed{
		Base:     newBase(ctx, PairRewarderDeployedEvent),
		Pair:     pair,
		Instance: instance,
		Version:  version,
	}
}

type PairRewarderUpgraded struct {
	*Base
	Instance    types.Address
	FromVersion string
	ToVersion   string
}

func NewPairRewarderUpgraded(ctx context.Context, instance types.Address, from, to string) *PairRewarderUpgraded {
	return &PairRewarderUpgraded{
		Base:        newBase(ctx, PairRewarderUpgradedEvent),
		Instance:    instance,
		FromVersion: from,
		ToVersion:   to,
	}
}
