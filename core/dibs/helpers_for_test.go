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

package dibs_test

import (
	"context"
	"testing"
	"time"

	"code.dibs.finance/dibs/core/access"
	"code.dibs.finance/dibs/core/assets/erc20"
	"code.dibs.finance/dibs/core/clock"
	"code.dibs.finance/dibs/core/dibs"
	"code.dibs.finance/dibs/core/dibs/mocks"
	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/referral"
	"code.dibs.finance/dibs/core/rounds"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"

	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

var (
	dibsAddress   = types.Address{0xd1, 0xb5}
	admin         = types.Address{0xad}
	setter        = types.Address{0x5e}
	blacklister   = types.Address{0xb1}
	platform      = types.Address{0xfe}
	router        = types.Address{0x70}
	muonInterface = types.Address{0x3a}
	user          = types.Address{0x01}
	user2         = types.Address{0x02}
	user3         = types.Address{0x03}
	user4         = types.Address{0x04}
	token         = types.Address{0x70, 0x4e}

	start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
)

const roundDuration = 7 * 24 * time.Hour

type testEngine struct {
	engine   *dibs.Engine
	broker   *mocks.MockBroker
	roles    *access.Engine
	registry *referral.Engine
	ledger   *erc20.Ledger
	clock    *clockwork.FakeClock
	events   []events.Event
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

	log := logging.NewTestLogger()
	te.roles = access.NewEngine(te.broker)
	te.roles.Bootstrap(context.Background(), map[types.Role][]types.Address{
		types.RoleAdmin:           {admin},
		types.RoleSetter:          {setter},
		types.RoleBlacklistSetter: {blacklister},
		types.RolePlatform:        {platform},
		types.RoleRouter:          {router},
	})
	te.registry = referral.NewEngine(log, te.broker, te.roles, dibsAddress)
	te.ledger = erc20.NewLedger(log)
	te.ledger.RegisterToken(erc20.Token{Address: token, Symbol: "TKN", Decimals: 18})

	var ts *clock.Service
	ts, te.clock = clock.NewFake(start.Add(time.Hour))

	te.engine = dibs.NewEngine(log, te.broker, ts, te.ledger, te.registry, te.roles,
		dibsAddress, rounds.NewSchedule(start, roundDuration))
	require.NoError(t, te.engine.SetMuonInterface(context.Background(), setter, muonInterface))
	te.events = nil
	return te
}

// fund gives the router enough tokens to pay the rewards.
func (te *testEngine) fund(amount uint64) {
	te.ledger.Mint(token, router, num.NewUint(amount))
}

func (te *testEngine) register(t *testing.T, owner types.Address, name string, parent types.Code) types.Code {
	t.Helper()
	code, err := te.registry.Register(context.Background(), owner, name, parent)
	require.NoError(t, err)
	return code
}

func (te *testEngine) lastEvent() events.Event {
	if len(te.events) == 0 {
		return nil
	}
	return te.events[len(te.events)-1]
}
