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

package types

import (
	"fmt"
	"strings"
)

// Role is a capability granted to an address.
type Role uint8

const (
	RoleUnspecified Role = iota
	// RoleAdmin grants and revokes every role.
	RoleAdmin
	// RoleSetter updates the configuration of the engines.
	RoleSetter
	// RoleBlacklistSetter flags addresses that can no longer claim.
	RoleBlacklistSetter
	// RolePlatform claims the share accrued to the root code.
	RolePlatform
	// RoleRouter is held by the fee collecting routers allowed to reward trades.
	RoleRouter
)

var roleNames = map[Role]string{
	RoleAdmin:           "ADMIN",
	RoleSetter:          "SETTER",
	RoleBlacklistSetter: "BLACKLIST_SETTER",
	RolePlatform:        "DIBS",
	RoleRouter:          "ROUTER",
}

// Roles lists every grantable role in a deterministic order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleSetter, RoleBlacklistSetter, RolePlatform, RoleRouter}
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNSPECIFIED"
}

func RoleFromString(s string) (Role, error) {
	for role, name := range roleNames {
		if strings.EqualFold(name, s) {
			return role, nil
		}
	}
	return RoleUnspecified, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	role, err := RoleFromString(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}
