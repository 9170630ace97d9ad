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

package access

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"
)

var ErrMissingRole = func(role types.Role, account types.Address) error {
	return fmt.Errorf("%w: %s does not have the role %s", types.ErrMissingRole, account.Hex(), role)
}

// Engine holds the members of every role. Only admins grant and revoke.
type Engine struct {
	broker Broker

	members map[types.Role]map[types.Address]struct{}
}

func NewEngine(broker Broker) *Engine {
	e := &Engine{
		broker: broker,
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.members = make(map[types.Role]map[types.Address]struct{}, len(types.Roles()))
	for _, r := range types.Roles() {
		e.members[r] = map[types.Address]struct{}{}
	}
}

// Bootstrap grants the initial roles, without any authorization check.
func (e *Engine) Bootstrap(ctx context.Context, grants map[types.Role][]types.Address) {
	for _, role := range types.Roles() {
		for _, account := range grants[role] {
			if e.grant(role, account) {
				e.broker.Send(events.NewRoleGranted(ctx, role, account, types.ZeroAddress))
			}
		}
	}
}

func (e *Engine) Grant(ctx context.Context, caller types.Address, role types.Role, account types.Address) error {
	if err := e.Require(types.RoleAdmin, caller); err != nil {
		return err
	}
	if _, ok := e.members[role]; !ok {
		return fmt.Errorf("%w: role %d", types.ErrInvalidInput, role)
	}
	if e.grant(role, account) {
		e.broker.Send(events.NewRoleGranted(ctx, role, account, caller))
	}
	return nil
}

func (e *Engine) Revoke(ctx context.Context, caller types.Address, role types.Role, account types.Address) error {
	if err := e.Require(types.RoleAdmin, caller); err != nil {
		return err
	}
	e.revoke(ctx, caller, role, account)
	return nil
}

// Renounce removes a role from the caller itself.
func (e *Engine) Renounce(ctx context.Context, caller types.Address, role types.Role) {
	e.revoke(ctx, caller, role, caller)
}

func (e *Engine) HasRole(role types.Role, account types.Address) bool {
	_, ok := e.members[role][account]
	return ok
}

func (e *Engine) Require(role types.Role, account types.Address) error {
	if !e.HasRole(role, account) {
		return ErrMissingRole(role, account)
	}
	return nil
}

// Members returns the holders of a role sorted by address.
func (e *Engine) Members(role types.Role) []types.Address {
	out := make([]types.Address, 0, len(e.members[role]))
	for a := range e.members[role] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}

func (e *Engine) grant(role types.Role, account types.Address) bool {
	if _, ok := e.members[role][account]; ok {
		return false
	}
	e.members[role][account] = struct{}{}
	return true
}

func (e *Engine) revoke(ctx context.Context, caller types.Address, role types.Role, account types.Address) {
	if _, ok := e.members[role][account]; !ok {
		return
	}
	delete(e.members[role], account)
	e.broker.Send(events.NewRoleRevoked(ctx, role, account, caller))
}
