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

package processor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.dibs.finance/dibs/config/encoding"
	"code.dibs.finance/dibs/core/checkpoint"
	"code.dibs.finance/dibs/core/clock"
	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/muon"
	"code.dibs.finance/dibs/core/processor"
	"code.dibs.finance/dibs/core/processor/mocks"
	"code.dibs.finance/dibs/core/repository"
	"code.dibs.finance/dibs/core/storage"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"

	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = types.Address{0xad}
	setter   = types.Address{0x5e}
	platform = types.Address{0x9f}
	relay    = types.Address{0x3a}
	lottery  = types.Address{0x10}
	user     = types.Address{0x01}
	usdc     = types.Address{0xa1}

	start = time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
)

func testGenesis() processor.GenesisState {
	g := processor.DefaultGenesisState()
	g.Contracts = processor.Contracts{
		Dibs:       types.Address{0xd1},
		Lottery:    lottery,
		Relay:      relay,
		Factory:    types.Address{0xfa},
		Repository: types.Address{0x7e},
		Platform:   platform,
	}
	g.Roles = map[types.Role][]types.Address{
		types.RoleAdmin:  {admin},
		types.RoleSetter: {setter},
	}
	g.Schedule.Start = encoding.Timestamp{Time: start}
	g.Muon = processor.MuonState{
		AppID:     num.NewUint(1337),
		PublicKey: muon.PublicKey{X: num.NewUint(42)},
		Gateway:   types.Address{0x6a},
	}
	g.Tokens = []processor.TokenState{{
		Address:  usdc,
		Symbol:   "USDC",
		Decimals: 6,
		Balances: map[types.Address]*num.Uint{user: num.NewUint(1000)},
	}}
	return g
}

type testProcessor struct {
	*processor.Processor
	clock *clockwork.FakeClock
}

func newProcessor(t *testing.T, store processor.Store) *testProcessor {
	t.Helper()
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)
	broker.EXPECT().Send(gomock.Any()).AnyTimes()
	svc, fake := clock.NewFake(start.Add(time.Hour))

	p, err := processor.New(
		context.Background(), logging.NewTestLogger(), processor.NewDefaultConfig(),
		broker, svc, store, testGenesis(), repository.NewRandomSeeds(nil),
	)
	require.NoError(t, err)
	return &testProcessor{Processor: p, clock: fake}
}

func newStore(t *testing.T) *storage.LevelDB {
	t.Helper()
	store, err := storage.New(logging.NewTestLogger(), storage.NewTestConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGenesis(t *testing.T) {
	t.Run("genesis is applied on an empty state", testGenesisIsApplied)
	t.Run("genesis needs a setter", testGenesisNeedsSetter)
	t.Run("genesis round trips through json", testGenesisDump)
}

func testGenesisIsApplied(t *testing.T) {
	p := newProcessor(t, nil)
	p.Query(func(e *processor.Engines) {
		assert.True(t, e.Roles.HasRole(types.RoleAdmin, admin))
		assert.True(t, e.Roles.HasRole(types.RoleSetter, setter))
		assert.Equal(t, relay, e.Accountant.MuonInterface())
		assert.Equal(t, platform, e.Registry.Root())
		assert.Equal(t, "1000", e.Tokens.BalanceOf(usdc, user).String())
		assert.Equal(t, lottery, e.Prizes.Self())
		assert.Equal(t, relay, e.Relay.Address())
	})
	require.NotNil(t, p.LastCheckpoint())
	assert.NoError(t, p.LastCheckpoint().Validate())
}

func testGenesisNeedsSetter(t *testing.T) {
	g := testGenesis()
	delete(g.Roles, types.RoleSetter)
	assert.ErrorIs(t, g.Validate(), types.ErrInvalidInput)

	g = testGenesis()
	g.Contracts.Relay = types.ZeroAddress
	assert.ErrorIs(t, g.Validate(), types.ErrZeroValue)
}

func testGenesisDump(t *testing.T) {
	g := testGenesis()
	out, err := processor.Dump(&g)
	require.NoError(t, err)
	assert.Contains(t, out, `"round_duration": "168h0m0s"`)
	assert.Contains(t, out, `"ADMIN"`)
}

func TestDeliver(t *testing.T) {
	t.Run("accepted calls are checkpointed", testDeliverCheckpoints)
	t.Run("failed calls are rolled back", testDeliverRollsBack)
	t.Run("time is fixed for the duration of a call", testTimeIsFixed)
}

func testDeliverCheckpoints(t *testing.T) {
	p := newProcessor(t, nil)
	before := p.LastCheckpoint().Hash

	err := p.Deliver(context.Background(), "register", func(ctx context.Context, e *processor.Engines) error {
		_, err := e.Registry.RegisterUnderRoot(ctx, user, "alice")
		return err
	})
	require.NoError(t, err)
	assert.NotEqual(t, before, p.LastCheckpoint().Hash)

	p.Query(func(e *processor.Engines) {
		assert.True(t, e.Registry.CodeExists(types.CodeFromName("alice")))
	})
}

func testDeliverRollsBack(t *testing.T) {
	p := newProcessor(t, nil)
	before := p.LastCheckpoint().Hash
	errBoom := errors.New("boom")

	err := p.Deliver(context.Background(), "register", func(ctx context.Context, e *processor.Engines) error {
		if _, err := e.Registry.RegisterUnderRoot(ctx, user, "alice"); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, before, p.LastCheckpoint().Hash)

	p.Query(func(e *processor.Engines) {
		assert.False(t, e.Registry.CodeExists(types.CodeFromName("alice")))
	})
}

func testTimeIsFixed(t *testing.T) {
	p := newProcessor(t, nil)
	err := p.Deliver(context.Background(), "time", func(_ context.Context, _ *processor.Engines) error {
		now := p.GetTimeNow()
		p.clock.Advance(time.Hour)
		assert.Equal(t, now, p.GetTimeNow())
		return nil
	})
	require.NoError(t, err)

	p.Query(func(_ *processor.Engines) {
		assert.Equal(t, start.Add(2*time.Hour), p.GetTimeNow())
	})
}

func TestPersistence(t *testing.T) {
	t.Run("state is restored from the store", testStateIsRestored)
	t.Run("a checkpoint is saved after every accepted call", testCheckpointIsSaved)
	t.Run("a call is rolled back when its checkpoint cannot be saved", testFailedSaveRollsBack)
}

func testStateIsRestored(t *testing.T) {
	store := newStore(t)
	p := newProcessor(t, store)
	require.NoError(t, p.Deliver(context.Background(), "register", func(ctx context.Context, e *processor.Engines) error {
		_, err := e.Registry.RegisterUnderRoot(ctx, user, "alice")
		return err
	}))

	restarted := newProcessor(t, store)
	assert.Equal(t, p.LastCheckpoint().Hash, restarted.LastCheckpoint().Hash)
	restarted.Query(func(e *processor.Engines) {
		assert.True(t, e.Registry.CodeExists(types.CodeFromName("alice")))
		// genesis balances are not minted twice
		assert.Equal(t, "1000", e.Tokens.BalanceOf(usdc, user).String())
	})
}

func testCheckpointIsSaved(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().LatestCheckpoint().Return(nil, storage.ErrNoCheckpoint)

	var saved []*checkpoint.Snapshot
	store.EXPECT().SaveCheckpoint(gomock.Any()).Times(2).DoAndReturn(func(snap *checkpoint.Snapshot) error {
		saved = append(saved, snap)
		return nil
	})

	p := newProcessor(t, store)
	require.NoError(t, p.Deliver(context.Background(), "register", func(ctx context.Context, e *processor.Engines) error {
		_, err := e.Registry.RegisterUnderRoot(ctx, user, "alice")
		return err
	}))
	// rejected calls are not saved
	assert.Error(t, p.Deliver(context.Background(), "register", func(ctx context.Context, e *processor.Engines) error {
		_, err := e.Registry.RegisterUnderRoot(ctx, user, "alice")
		return err
	}))

	require.Len(t, saved, 2)
	assert.Equal(t, p.LastCheckpoint().Hash, saved[1].Hash)
}

func testFailedSaveRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().LatestCheckpoint().Return(nil, storage.ErrNoCheckpoint)
	errDiskFull := errors.New("disk full")
	gomock.InOrder(
		store.EXPECT().SaveCheckpoint(gomock.Any()).Return(nil),
		store.EXPECT().SaveCheckpoint(gomock.Any()).Return(errDiskFull),
		store.EXPECT().SaveCheckpoint(gomock.Any()).Return(nil),
	)

	broker := mocks.NewMockBroker(ctrl)
	var sent []events.Event
	broker.EXPECT().Send(gomock.Any()).Do(func(evt events.Event) {
		sent = append(sent, evt)
	}).AnyTimes()
	svc, _ := clock.NewFake(start.Add(time.Hour))
	p, err := processor.New(
		context.Background(), logging.NewTestLogger(), processor.NewDefaultConfig(),
		broker, svc, store, testGenesis(), repository.NewRandomSeeds(nil),
	)
	require.NoError(t, err)
	before := p.LastCheckpoint().Hash
	sent = nil

	register := func(ctx context.Context, e *processor.Engines) error {
		_, err := e.Registry.RegisterUnderRoot(ctx, user, "P1")
		return err
	}
	assert.ErrorIs(t, p.Deliver(context.Background(), "register", register), errDiskFull)
	assert.Equal(t, before, p.LastCheckpoint().Hash)
	assert.Empty(t, sent)
	p.Query(func(e *processor.Engines) {
		assert.Empty(t, e.Registry.GetCodeName(user))
		assert.False(t, e.Registry.CodeExists(types.CodeFromName("P1")))
	})

	// the same call goes through once the store recovers
	require.NoError(t, p.Deliver(context.Background(), "register", register))
	assert.NotEqual(t, before, p.LastCheckpoint().Hash)
	assert.NotEmpty(t, sent)
	p.Query(func(e *processor.Engines) {
		assert.Equal(t, "P1", e.Registry.GetCodeName(user))
	})
}
