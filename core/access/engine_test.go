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

package access_test

import (
	"context"
	"testing"

	"code.dibs.finance/dibs/core/access"
	"code.dibs.finance/dibs/core/access/mocks"
	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin  = types.Address{0xad}
	setter = types.Address{0x5e}
	user   = types.Address{0x01}
)

type testEngine struct {
	engine *access.Engine
	broker *mocks.MockBroker
	events []events.Event
}

func newEngine(t *testing.T) *testEngine {
	t.Helper()

	ctrl := gomock.NewController(t)
	te := &testEngine{
		broker: mocks.NewMockBroker(ctrl),
	}
	te.broker.EXPECT().Send(gomock.Any()).Do(func(evt events.Event) {
		te.events = append(te.events, evt)
	}).AnyTimes()

	te.engine = access.NewEngine(te.broker)
	te.engine.Bootstrap(context.Background(), map[types.Role][]types.Address{
		types.RoleAdmin:  {admin},
		types.RoleSetter: {setter},
	})
	return te
}

func TestEngine(t *testing.T) {
	t.Run("Bootstrap grants the initial roles", testBootstrap)
	t.Run("Only admins grant roles", testOnlyAdminsGrant)
	t.Run("Revoking and renouncing roles", testRevoke)
	t.Run("Checkpoint restores the members", testCheckpoint)
}

func testBootstrap(t *testing.T) {
	te := newEngine(t)

	assert.True(t, te.engine.HasRole(types.RoleAdmin, admin))
	assert.True(t, te.engine.HasRole(types.RoleSetter, setter))
	assert.False(t, te.engine.HasRole(types.RoleSetter, admin))
	require.Len(t, te.events, 2)
	assert.Equal(t, events.RoleGrantedEvent, te.events[0].Type())
}

func testOnlyAdminsGrant(t *testing.T) {
	ctx := context.Background()
	te := newEngine(t)

	err := te.engine.Grant(ctx, setter, types.RolePlatform, user)
	require.EqualError(t, err, access.ErrMissingRole(types.RoleAdmin, setter).Error())
	require.ErrorIs(t, err, types.ErrMissingRole)
	assert.False(t, te.engine.HasRole(types.RolePlatform, user))

	require.NoError(t, te.engine.Grant(ctx, admin, types.RolePlatform, user))
	assert.True(t, te.engine.HasRole(types.RolePlatform, user))
	require.NoError(t, te.engine.Require(types.RolePlatform, user))

	// granting twice is a no-op
	n := len(te.events)
	require.NoError(t, te.engine.Grant(ctx, admin, types.RolePlatform, user))
	assert.Len(t, te.events, n)

	require.ErrorIs(t, te.engine.Grant(ctx, admin, types.RoleUnspecified, user), types.ErrInvalidInput)
}

func testRevoke(t *testing.T) {
	ctx := context.Background()
	te := newEngine(t)

	require.ErrorIs(t, te.engine.Revoke(ctx, user, types.RoleSetter, setter), types.ErrMissingRole)
	require.NoError(t, te.engine.Revoke(ctx, admin, types.RoleSetter, setter))
	assert.False(t, te.engine.HasRole(types.RoleSetter, setter))
	assert.Equal(t, events.RoleRevokedEvent, te.events[len(te.events)-1].Type())

	te.engine.Renounce(ctx, admin, types.RoleAdmin)
	assert.Empty(t, te.engine.Members(types.RoleAdmin))
}

func testCheckpoint(t *testing.T) {
	te := newEngine(t)
	require.NoError(t, te.engine.Grant(context.Background(), admin, types.RoleBlacklistSetter, user))

	data, err := te.engine.Checkpoint()
	require.NoError(t, err)

	restored := newEngine(t)
	require.NoError(t, restored.engine.Load(data))

	for _, r := range types.Roles() {
		assert.Equal(t, te.engine.Members(r), restored.engine.Members(r), r.String())
	}
	assert.Equal(t, types.AccessCheckpoint, restored.engine.Name())
}
