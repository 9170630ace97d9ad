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

package repository_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"code.dibs.finance/dibs/core/access"
	"code.dibs.finance/dibs/core/clock"
	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/repository"
	"code.dibs.finance/dibs/core/repository/mocks"
	"code.dibs.finance/dibs/core/types"
	vgcrypto "code.dibs.finance/dibs/libs/crypto"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin  = types.Address{0xad}
	setter = types.Address{0x5e}
	user   = types.Address{0x01}
	dibs   = types.Address{0xd1}

	start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
)

const (
	chainID       = 56
	roundDuration = 7 * 24 * time.Hour
)

type testRepository struct {
	repo   *repository.Repository
	broker *mocks.MockBroker
	seeds  *mocks.MockSeedGenerator
	clock  *clockwork.FakeClock
	events []events.Event
}

func newRepository(t *testing.T) *testRepository {
	t.Helper()
	ctrl := gomock.NewController(t)
	tr := &testRepository{
		broker: mocks.NewMockBroker(ctrl),
		seeds:  mocks.NewMockSeedGenerator(ctrl),
	}
	tr.broker.EXPECT().Send(gomock.Any()).Do(func(evt events.Event) {
		tr.events = append(tr.events, evt)
	}).AnyTimes()

	roles := access.NewEngine(tr.broker)
	roles.Bootstrap(context.Background(), map[types.Role][]types.Address{
		types.RoleAdmin:  {admin},
		types.RoleSetter: {setter},
	})
	var ts *clock.Service
	ts, tr.clock = clock.NewFake(start.Add(time.Hour))
	tr.repo = repository.New(logging.NewTestLogger(), tr.broker, ts, roles, tr.seeds)
	tr.events = nil
	return tr
}

func (tr *testRepository) addProject(t *testing.T) common.Hash {
	t.Helper()
	id, err := tr.repo.AddProject(context.Background(), setter, chainID, dibs, "https://graph.example/dibs", start, roundDuration)
	require.NoError(t, err)
	return id
}

func TestIdentifiers(t *testing.T) {
	id := repository.ProjectID(chainID, dibs)
	expected := vgcrypto.Keccak256(
		common.LeftPadBytes([]byte{chainID}, 32),
		common.LeftPadBytes(dibs.Bytes(), 32),
	)
	assert.Equal(t, expected, id)
	assert.NotEqual(t, id, repository.ProjectID(chainID+1, dibs))

	roundID := repository.RoundID(id, 3)
	assert.Equal(t, vgcrypto.Keccak256(id.Bytes(), []byte{0, 0, 0, 3}), roundID)
	assert.NotEqual(t, roundID, repository.RoundID(id, 4))
}

func TestProjects(t *testing.T) {
	ctx := context.Background()
	tr := newRepository(t)

	_, err := tr.repo.AddProject(ctx, user, chainID, dibs, "", start, roundDuration)
	assert.ErrorIs(t, err, types.ErrMissingRole)
	_, err = tr.repo.AddProject(ctx, setter, chainID, dibs, "", start, 0)
	assert.ErrorIs(t, err, types.ErrZeroValue)

	id := tr.addProject(t)
	assert.Equal(t, repository.ProjectID(chainID, dibs), id)
	_, err = tr.repo.AddProject(ctx, setter, chainID, dibs, "", start, roundDuration)
	assert.ErrorIs(t, err, types.ErrAlreadySet)

	p, ok := tr.repo.Project(id)
	require.True(t, ok)
	assert.Equal(t, uint64(chainID), p.ChainID)
	assert.Equal(t, "https://graph.example/dibs", p.SubgraphEndpoint)

	require.NoError(t, tr.repo.UpdateSubgraphEndpoint(ctx, setter, id, "https://graph.example/v2"))
	p, _ = tr.repo.Project(id)
	assert.Equal(t, "https://graph.example/v2", p.SubgraphEndpoint)

	assert.ErrorIs(t, tr.repo.UpdateSubgraphEndpoint(ctx, user, id, ""), types.ErrMissingRole)
	assert.ErrorIs(t, tr.repo.UpdateSubgraphEndpoint(ctx, setter, common.Hash{0x01}, ""), types.ErrInvalidProject)

	assert.Equal(t, []common.Hash{id}, tr.repo.ProjectIDs())
	require.Len(t, tr.events, 2)
}

func TestRequestRandomSeed(t *testing.T) {
	t.Run("unknown project", testSeedUnknownProject)
	t.Run("round not over", testSeedRoundNotOver)
	t.Run("seeds are drawn once", testSeedDrawnOnce)
	t.Run("generator failures are returned", testSeedGeneratorFailure)
}

func testSeedUnknownProject(t *testing.T) {
	tr := newRepository(t)
	_, err := tr.repo.RequestRandomSeed(context.Background(), common.Hash{0x01}, 0)
	assert.ErrorIs(t, err, types.ErrInvalidProject)
}

func testSeedRoundNotOver(t *testing.T) {
	tr := newRepository(t)
	id := tr.addProject(t)
	_, err := tr.repo.RequestRandomSeed(context.Background(), id, 0)
	assert.ErrorIs(t, err, types.ErrRoundNotOver)
}

func testSeedDrawnOnce(t *testing.T) {
	ctx := context.Background()
	tr := newRepository(t)
	id := tr.addProject(t)
	tr.clock.Advance(roundDuration)
	roundID := repository.RoundID(id, 0)

	tr.seeds.EXPECT().GenerateSeed(gomock.Any(), roundID).Return(num.NewUint(42), nil).Times(1)
	seed, err := tr.repo.RequestRandomSeed(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, "42", seed.String())

	stored, ok := tr.repo.Seed(roundID)
	require.True(t, ok)
	assert.Equal(t, "42", stored.String())

	_, err = tr.repo.RequestRandomSeed(ctx, id, 0)
	assert.ErrorIs(t, err, types.ErrAlreadySet)

	evt, ok := tr.events[len(tr.events)-1].(*events.SeedRequested)
	require.True(t, ok)
	assert.Equal(t, roundID, evt.RoundID)
}

func testSeedGeneratorFailure(t *testing.T) {
	tr := newRepository(t)
	id := tr.addProject(t)
	tr.clock.Advance(roundDuration)

	tr.seeds.EXPECT().GenerateSeed(gomock.Any(), gomock.Any()).Return(nil, errors.New("no entropy"))
	_, err := tr.repo.RequestRandomSeed(context.Background(), id, 0)
	require.Error(t, err)
	_, ok := tr.repo.Seed(repository.RoundID(id, 0))
	assert.False(t, ok)
}

func TestRandomSeeds(t *testing.T) {
	src := bytes.NewReader(append(make([]byte, 31), 7))
	seed, err := repository.NewRandomSeeds(src).GenerateSeed(context.Background(), common.Hash{})
	require.NoError(t, err)
	assert.Equal(t, "7", seed.String())

	_, err = repository.NewRandomSeeds(bytes.NewReader(nil)).GenerateSeed(context.Background(), common.Hash{})
	assert.Error(t, err)

	seed, err = repository.NewRandomSeeds(nil).GenerateSeed(context.Background(), common.Hash{})
	require.NoError(t, err)
	assert.NotNil(t, seed)
}

func TestCheckpoint(t *testing.T) {
	ctx := context.Background()
	tr := newRepository(t)
	id := tr.addProject(t)
	tr.clock.Advance(2 * roundDuration)
	tr.seeds.EXPECT().GenerateSeed(gomock.Any(), gomock.Any()).Return(num.NewUint(1), nil)
	tr.seeds.EXPECT().GenerateSeed(gomock.Any(), gomock.Any()).Return(num.NewUint(2), nil)
	_, err := tr.repo.RequestRandomSeed(ctx, id, 0)
	require.NoError(t, err)
	_, err = tr.repo.RequestRandomSeed(ctx, id, 1)
	require.NoError(t, err)

	data, err := tr.repo.Checkpoint()
	require.NoError(t, err)

	loaded := newRepository(t)
	require.Equal(t, types.RepositoryCheckpoint, loaded.repo.Name())
	require.NoError(t, loaded.repo.Load(data))

	p, ok := loaded.repo.Project(id)
	require.True(t, ok)
	assert.True(t, p.Schedule.Start.Equal(start))
	seed, ok := loaded.repo.Seed(repository.RoundID(id, 1))
	require.True(t, ok)
	assert.Equal(t, "2", seed.String())

	again, err := loaded.repo.Checkpoint()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}
