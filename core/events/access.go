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

type RoleUpdated struct {
	*Base
	Role    types.Role
	Account types.Address
	Sender  types.Address
}

func NewRoleGranted(ctx context.Context, role types.Role, account, sender types.Address) *RoleUpdated {
	return &RoleUpdated{
		Base:    newBase(ctx, RoleGrantedEvent),
		Role:    role,
		Account: account,
		Sender:  sender,
	}
}

func NewRoleRevoked(ctx context.Context, role types.Role, account, sender types.Address) *RoleUpdated {
	return &RoleUpdated{
		Base:    newBase(ctx, RoleRevokedEvent),
		Role:    role,
		Account: account,
		Sender:  sender,
	}
}
