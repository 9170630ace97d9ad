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

type CodeRegistered struct {
	*Base
	Owner  types.Address
	Code   types.Code
	Name   string
	Parent types.Address
}

func NewCodeRegistered(ctx context.Context, owner types.Address, code types.Code, name string, parent types.Address) *CodeRegistered {
	return &CodeRegistered{
		Base:   newBase(ctx, CodeRegisteredEvent),
		Owner:  owner,
		Code:   code,
		Name:   name,
		Parent: parent,
	}
}

// ParentSet is emitted when the parent of an address is bound on its first
// trade or overridden by a setter.
type ParentSet struct {
	*Base
	User   types.Address
	Parent types.Address
}

func NewParentSet(ctx context.Context, user, parent types.Address) *ParentSet {
	return &ParentSet{
		Base:   newBase(ctx, ParentSetEvent),
		User:   user,
		Parent: parent,
	}
}
