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

package referral

import (
	"context"
	"fmt"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/logging"
)

const namedLogger = "referral"

var (
	ErrCodeAlreadyExists = func(name string) error {
		return fmt.Errorf("%w: %q", types.ErrCodeAlreadyExists, name)
	}

	ErrAlreadyOwnsCode = func(owner types.Address) error {
		return fmt.Errorf("%w: %s already owns a code", types.ErrCodeAlreadyExists, owner.Hex())
	}

	ErrCodeDoesNotExist = func(code types.Code) error {
		return fmt.Errorf("%w: %s", types.ErrCodeDoesNotExist, code.Hex())
	}

	ErrParentCycle = func(user, parent types.Address) error {
		return fmt.Errorf("%w: %s is a descendant of %s", types.ErrInvalidInput, parent.Hex(), user.Hex())
	}
)

// Engine is the registry of referral codes. Codes form a forest rooted at
// the code of the platform: every registered address points to the owner
// of the code it registered under, its parent.
type Engine struct {
	log    *logging.Logger
	broker Broker
	roles  Roles

	// root owns the root code, it has no parent.
	root     types.Address
	rootCode types.Code

	codeOwners    map[types.Code]types.Address
	codeNames     map[types.Code]string
	addressToCode map[types.Address]types.Code
	parents       map[types.Address]types.Address
}

func NewEngine(log *logging.Logger, broker Broker, roles Roles, root types.Address) *Engine {
	e := &Engine{
		log:    log.Named(namedLogger),
		broker: broker,
		roles:  roles,
		root:   root,
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.rootCode = types.CodeFromName(types.RootCodeName)
	e.codeOwners = map[types.Code]types.Address{e.rootCode: e.root}
	e.codeNames = map[types.Code]string{e.rootCode: types.RootCodeName}
	e.addressToCode = map[types.Address]types.Code{e.root: e.rootCode}
	e.parents = map[types.Address]types.Address{}
}

// Register creates the code of name for the caller, under the code parentCode.
func (e *Engine) Register(ctx context.Context, caller types.Address, name string, parentCode types.Code) (types.Code, error) {
	if len(name) == 0 {
		return types.ZeroCode, fmt.Errorf("%w: code name", types.ErrZeroValue)
	}

	code := types.CodeFromName(name)
	if _, taken := e.codeOwners[code]; taken {
		return types.ZeroCode, ErrCodeAlreadyExists(name)
	}
	if _, owns := e.addressToCode[caller]; owns {
		return types.ZeroCode, ErrAlreadyOwnsCode(caller)
	}

	parent, ok := e.codeOwners[parentCode]
	if !ok {
		return types.ZeroCode, ErrCodeDoesNotExist(parentCode)
	}
	if e.isAncestor(caller, parent) {
		return types.ZeroCode, ErrParentCycle(caller, parent)
	}

	e.codeOwners[code] = caller
	e.codeNames[code] = name
	e.addressToCode[caller] = code
	e.parents[caller] = parent

	e.log.Debug("code registered",
		logging.String("name", name),
		logging.Address("owner", caller),
		logging.Address("parent", parent),
	)
	e.broker.Send(events.NewCodeRegistered(ctx, caller, code, name, parent))

	return code, nil
}

// RegisterUnderRoot registers a code whose parent is the root code.
func (e *Engine) RegisterUnderRoot(ctx context.Context, caller types.Address, name string) (types.Code, error) {
	return e.Register(ctx, caller, name, e.rootCode)
}

// SetParent overrides the parent of an address.
func (e *Engine) SetParent(ctx context.Context, caller, user, parent types.Address) error {
	if err := e.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	if user == e.root {
		return fmt.Errorf("%w: the root has no parent", types.ErrInvalidInput)
	}
	if user == parent || e.isAncestor(user, parent) {
		return ErrParentCycle(user, parent)
	}

	e.parents[user] = parent
	e.broker.Send(events.NewParentSet(ctx, user, parent))
	return nil
}

// BindParentIfUnset binds the parent of a user the first time they are seen
// trading, it returns true if the binding happened.
func (e *Engine) BindParentIfUnset(ctx context.Context, user, parent types.Address) bool {
	if user == e.root || user == parent {
		return false
	}
	if _, ok := e.parents[user]; ok {
		return false
	}
	if e.isAncestor(user, parent) {
		return false
	}
	e.parents[user] = parent
	e.broker.Send(events.NewParentSet(ctx, user, parent))
	return true
}

// ResolveReferrer returns the owner of the code, the root for the zero code
// or an unknown code.
func (e *Engine) ResolveReferrer(code types.Code) types.Address {
	if owner, ok := e.codeOwners[code]; ok {
		return owner
	}
	return e.root
}

func (e *Engine) Root() types.Address {
	return e.root
}

func (e *Engine) RootCode() types.Code {
	return e.rootCode
}

// GetCode derives the code of a name, registered or not.
func (e *Engine) GetCode(name string) types.Code {
	return types.CodeFromName(name)
}

func (e *Engine) CodeExists(code types.Code) bool {
	_, ok := e.codeOwners[code]
	return ok
}

func (e *Engine) CodeOwner(code types.Code) (types.Address, bool) {
	owner, ok := e.codeOwners[code]
	return owner, ok
}

// GetCodeName returns the name of the code owned by addr, or an empty string.
func (e *Engine) GetCodeName(addr types.Address) string {
	code, ok := e.addressToCode[addr]
	if !ok {
		return ""
	}
	return e.codeNames[code]
}

// AddressToCode returns the code owned by addr, or the zero code.
func (e *Engine) AddressToCode(addr types.Address) types.Code {
	return e.addressToCode[addr]
}

// Parent returns the parent of addr, or the zero address.
func (e *Engine) Parent(addr types.Address) types.Address {
	return e.parents[addr]
}

func (e *Engine) Grandparent(addr types.Address) types.Address {
	parent, ok := e.parents[addr]
	if !ok {
		return types.ZeroAddress
	}
	return e.parents[parent]
}

// isAncestor tells if ancestor is candidate itself or one of candidate's
// ancestors.
func (e *Engine) isAncestor(ancestor, candidate types.Address) bool {
	seen := map[types.Address]struct{}{}
	for cur := candidate; ; {
		if cur == ancestor {
			return true
		}
		if _, ok := seen[cur]; ok {
			return false
		}
		seen[cur] = struct{}{}
		next, ok := e.parents[cur]
		if !ok {
			return false
		}
		cur = next
	}
}
