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

package pairrewarder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.dibs.finance/dibs/core/access"
	"code.dibs.finance/dibs/core/assets/erc20"
	"code.dibs.finance/dibs/core/clock"
	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/leaderboard"
	"code.dibs.finance/dibs/core/pairrewarder"
	"code.dibs.finance/dibs/core/pairrewarder/mocks"
	"code.dibs.finance/dibs/core/rounds"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	factoryAddress = types.Address{0xfa}
	admin          = types.Address{0xad}
	setter         = types.Address{0x5e}
	pairAdmin      = types.Address{0xa0}
	pairSetter     = types.Address{0xa5}
	muonInterface  = types.Address{0x3a}
	pair1          = types.Address{0x71}
	pair2          = types.Address{0x72}
	user1          = types.Address{0x01}
	user2          = types.Address{0x02}
	token          = types.Address{0xa1}

	start = time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
)

type testFactory struct {
	factory    *pairrewarder.Factory
	broker     *mocks.MockBroker
	accountant *mocks.MockAccountant
	ledger     *erc20.Ledger
	ts         *clock.Service
	clock      *clockwork.FakeClock
	events     []events.Event
}

func newFactory(t *testing.T, impls ...pairrewarder.Implementation) *testFactory {
	t.Helper()
	ctrl := gomock.NewController(t)
	tf := &testFactory{
		broker:     mocks.NewMockBroker(ctrl),
		accountant: mocks.NewMockAccountant(ctrl),
	}
	tf.broker.EXPECT().Send(gomock.Any()).Do(func(evt events.Event) {
		tf.events = append(tf.events, evt)
	}).AnyTimes()

	roles := access.NewEngine(tf.broker)
	roles.Bootstrap(context.Background(), map[types.Role][]types.Address{
		types.RoleAdmin:  {admin},
		types.RoleSetter: {setter},
	})
	tf.accountant.EXPECT().MuonInterface().Return(muonInterface).AnyTimes()
	tf.accountant.EXPECT().Schedule().Return(rounds.NewSchedule(start, 7*rounds.Day)).AnyTimes()
	tf.accountant.EXPECT().Roles().Return(roles).AnyTimes()

	log := logging.NewTestLogger()
	tf.ledger = erc20.NewLedger(log)
	tf.ts, tf.clock = clock.NewFake(start)
	tf.factory = pairrewarder.NewFactory(log, tf.broker, tf.ts, tf.accountant, tf.ledger, factoryAddress, impls...)
	tf.events = nil
	return tf
}

func (tf *testFactory) deploy(t *testing.T, pair types.Address) *pairrewarder.Rewarder {
	t.Helper()
	addr, err := tf.factory.DeployPairRewarder(context.Background(), pair, pairAdmin, pairSetter)
	require.NoError(t, err)
	r, ok := tf.factory.Rewarder(addr)
	require.True(t, ok)
	return r
}

// publish gives the rewarder a two rank table from day 1 and ranks day 1.
func publish(t *testing.T, tf *testFactory, r *pairrewarder.Rewarder) {
	t.Helper()
	ctx := context.Background()
	tf.ledger.Mint(token, r.Address(), num.NewUint(1000))
	require.NoError(t, r.UpdateLeaderBoardData(ctx, pairSetter, 1, 2,
		[]types.Address{token},
		[][]*num.Uint{{num.NewUint(100), num.NewUint(40)}},
	))
	tf.clock.Advance(3 * rounds.Day)
	require.NoError(t, r.SetTopReferrers(ctx, muonInterface, 1, []types.Address{user1, user2}))
}

func TestDeployPairRewarder(t *testing.T) {
	tf := newFactory(t)

	r1 := tf.deploy(t, pair1)
	r2 := tf.deploy(t, pair1)
	r3 := tf.deploy(t, pair2)

	assert.Equal(t, crypto.CreateAddress(factoryAddress, 0), r1.Address())
	assert.Equal(t, crypto.CreateAddress(factoryAddress, 1), r2.Address())
	assert.Equal(t, crypto.CreateAddress(factoryAddress, 2), r3.Address())

	assert.Equal(t, 2, tf.factory.PairsLength())
	assert.Equal(t, []types.Address{pair1, pair2}, tf.factory.AllPairs())
	assert.Equal(t, []types.Address{r1.Address(), r2.Address()}, tf.factory.PairRewarders(pair1))
	assert.Equal(t, 2, tf.factory.PairRewardersLength(pair1))
	assert.Equal(t, 1, tf.factory.PairRewardersLength(pair2))
	assert.Equal(t, 0, tf.factory.PairRewardersLength(user1))

	assert.Equal(t, pair1, r1.Pair())
	assert.Equal(t, "v1", r1.Version())
	assert.True(t, r1.Roles().HasRole(types.RoleAdmin, pairAdmin))
	assert.True(t, r1.Roles().HasRole(types.RoleSetter, pairSetter))
	assert.False(t, r1.Roles().HasRole(types.RoleSetter, setter))

	_, err := tf.factory.DeployPairRewarder(context.Background(), types.ZeroAddress, pairAdmin, pairSetter)
	assert.ErrorIs(t, err, types.ErrZeroValue)

	deployed := 0
	for _, evt := range tf.events {
		if _, ok := evt.(*events.PairRewarderDeployed); ok {
			deployed++
		}
	}
	assert.Equal(t, 3, deployed)
}

func TestRewarder(t *testing.T) {
	t.Run("rewarders have their own prizes", testRewardersAreIndependent)
	t.Run("only the muon interface ranks referrers", testOnlyMuonInterface)
	t.Run("only the rewarder setters publish tables", testRewarderSetters)
}

func testRewardersAreIndependent(t *testing.T) {
	ctx := context.Background()
	tf := newFactory(t)
	r1 := tf.deploy(t, pair1)
	r2 := tf.deploy(t, pair1)
	publish(t, tf, r1)

	balances := r1.UserTokensAndBalance(user1)
	require.Len(t, balances, 1)
	assert.Equal(t, "100", balances[0].Amount.String())
	assert.Empty(t, r2.UserTokensAndBalance(user1))
	assert.Equal(t, 0, r2.LeaderBoardsLength())

	require.NoError(t, r1.ClaimReward(ctx, user2, user2))
	assert.Equal(t, "40", tf.ledger.BalanceOf(token, user2).String())
	assert.Equal(t, "960", tf.ledger.BalanceOf(token, r1.Address()).String())
}

func testOnlyMuonInterface(t *testing.T) {
	tf := newFactory(t)
	r := tf.deploy(t, pair1)
	tf.clock.Advance(3 * rounds.Day)

	err := r.SetTopReferrers(context.Background(), pairSetter, 1, []types.Address{user1})
	assert.ErrorIs(t, err, types.ErrOnlyMuonInterface)
	assert.False(t, r.IsDayDecided(1))
}

func testRewarderSetters(t *testing.T) {
	tf := newFactory(t)
	r := tf.deploy(t, pair1)

	err := r.UpdateLeaderBoardData(context.Background(), setter, 1, 1,
		[]types.Address{token}, [][]*num.Uint{{num.NewUint(1)}})
	assert.ErrorIs(t, err, types.ErrMissingRole)
}

func TestUpgradePairRewarders(t *testing.T) {
	t.Run("upgrades keep the state", testUpgradeKeepsState)
	t.Run("upgrades are all or nothing", testUpgradeAllOrNothing)
	t.Run("upgrades are gated by the accountant setters", testUpgradeGated)
	t.Run("the template only affects new deployments", testSetTemplate)
}

func v2() pairrewarder.Implementation {
	return pairrewarder.Implementation{
		Version: "v2",
		// v2 rewards one more rank with nothing
		Migrate: func(s leaderboard.State) (leaderboard.State, error) {
			for i := range s.LeaderBoards {
				s.LeaderBoards[i].Count++
				for j := range s.LeaderBoards[i].RankRewardAmount {
					s.LeaderBoards[i].RankRewardAmount[j] = append(s.LeaderBoards[i].RankRewardAmount[j], num.UintZero())
				}
			}
			return s, nil
		},
	}
}

func testUpgradeKeepsState(t *testing.T) {
	ctx := context.Background()
	tf := newFactory(t, pairrewarder.InitialImplementation, v2())
	r := tf.deploy(t, pair1)
	publish(t, tf, r)

	require.NoError(t, tf.factory.UpgradePairRewarders(ctx, setter, []types.Address{r.Address()}, "v2"))
	assert.Equal(t, "v2", r.Version())

	lb, err := r.LatestLeaderBoard()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), lb.Count)
	assert.Equal(t, []types.Address{user1, user2}, r.TopReferrers(1))
	assert.Equal(t, []uint64{1}, r.WinningDays(user1))
	assert.Equal(t, "100", r.UserTokensAndBalance(user1)[0].Amount.String())

	evt, ok := tf.events[len(tf.events)-1].(*events.PairRewarderUpgraded)
	require.True(t, ok)
	assert.Equal(t, "v1", evt.FromVersion)
	assert.Equal(t, "v2", evt.ToVersion)
}

func testUpgradeAllOrNothing(t *testing.T) {
	ctx := context.Background()
	failing := pairrewarder.Implementation{
		Version: "broken",
		Migrate: func(s leaderboard.State) (leaderboard.State, error) {
			if len(s.LeaderBoards) > 0 {
				return s, errors.New("cannot migrate published tables")
			}
			return s, nil
		},
	}
	tf := newFactory(t, pairrewarder.InitialImplementation, failing)
	empty := tf.deploy(t, pair1)
	published := tf.deploy(t, pair2)
	publish(t, tf, published)

	err := tf.factory.UpgradePairRewarders(ctx, setter, []types.Address{empty.Address(), published.Address()}, "broken")
	require.Error(t, err)
	assert.Equal(t, "v1", empty.Version())
	assert.Equal(t, "v1", published.Version())

	err = tf.factory.UpgradePairRewarders(ctx, setter, []types.Address{empty.Address(), user1}, "broken")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	assert.Equal(t, "v1", empty.Version())

	err = tf.factory.UpgradePairRewarders(ctx, setter, []types.Address{empty.Address()}, "v9")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func testUpgradeGated(t *testing.T) {
	tf := newFactory(t, pairrewarder.InitialImplementation, v2())
	r := tf.deploy(t, pair1)

	// the setters of a rewarder cannot upgrade it
	err := tf.factory.UpgradePairRewarders(context.Background(), pairSetter, []types.Address{r.Address()}, "v2")
	assert.ErrorIs(t, err, types.ErrMissingRole)
	err = tf.factory.SetPairRewarderTemplate(context.Background(), pairSetter, "v2")
	assert.ErrorIs(t, err, types.ErrMissingRole)
	assert.Equal(t, "v1", r.Version())
}

func testSetTemplate(t *testing.T) {
	ctx := context.Background()
	tf := newFactory(t)
	old := tf.deploy(t, pair1)

	assert.ErrorIs(t, tf.factory.SetPairRewarderTemplate(ctx, setter, "v2"), types.ErrInvalidInput)

	tf.factory.RegisterImplementation(v2())
	require.NoError(t, tf.factory.SetPairRewarderTemplate(ctx, setter, "v2"))
	assert.Equal(t, "v2", tf.factory.Template())

	fresh := tf.deploy(t, pair1)
	assert.Equal(t, "v2", fresh.Version())
	assert.Equal(t, "v1", old.Version())
}

func TestCheckpoint(t *testing.T) {
	ctx := context.Background()
	tf := newFactory(t, pairrewarder.InitialImplementation, v2())
	r1 := tf.deploy(t, pair1)
	tf.deploy(t, pair2)
	r3 := tf.deploy(t, pair1)
	publish(t, tf, r1)
	require.NoError(t, tf.factory.UpgradePairRewarders(ctx, setter, []types.Address{r3.Address()}, "v2"))

	data, err := tf.factory.Checkpoint()
	require.NoError(t, err)

	loaded := newFactory(t, pairrewarder.InitialImplementation, v2())
	require.Equal(t, types.PairRewardCheckpoint, loaded.factory.Name())
	require.NoError(t, loaded.factory.Load(data))

	assert.Equal(t, tf.factory.AllPairs(), loaded.factory.AllPairs())
	assert.Equal(t, tf.factory.PairRewarders(pair1), loaded.factory.PairRewarders(pair1))

	lr1, ok := loaded.factory.Rewarder(r1.Address())
	require.True(t, ok)
	assert.Equal(t, []types.Address{user1, user2}, lr1.TopReferrers(1))
	assert.Equal(t, "100", lr1.UserTokensAndBalance(user1)[0].Amount.String())
	assert.True(t, lr1.Roles().HasRole(types.RoleSetter, pairSetter))

	lr3, ok := loaded.factory.Rewarder(r3.Address())
	require.True(t, ok)
	assert.Equal(t, "v2", lr3.Version())

	// deployments continue from the restored nonce
	next, err := loaded.factory.DeployPairRewarder(ctx, pair2, pairAdmin, pairSetter)
	require.NoError(t, err)
	assert.Equal(t, crypto.CreateAddress(factoryAddress, 3), next)

	again, err := loaded.factory.Checkpoint()
	require.NoError(t, err)
	assert.NotEqual(t, data, again)

	unknown := newFactory(t)
	assert.ErrorIs(t, unknown.factory.Load(data), types.ErrInvalidInput)
}
