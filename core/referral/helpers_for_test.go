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

package referral_test

import (
	"context"
	"testing"

	"code.dibs.finance/dibs/core/access"
	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/referral"
	"code.dibs.finance/dibs/core/referral/mocks"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/logging"

	"github.com/golang/mock/gomock"
)

var (
	dibsAddress = types.Address{0xd1, 0xb5}
	admin       = types.Address{0xad}
	setter      = types.Address{0x5e}
	user1       = types.Address{0x01}
	user2       = types.Address{0x02}
	user3       = types.Address{0x03}
	user4       = types.Address{0x04}
)

type testEngine struct {
	engine *referral.Engine
	broker *mocks.MockBroker
	roles  *access.Engine
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

	te.roles = access.NewEngine(te.broker)
	te.roles.Bootstrap(context.Background(), map[types.Role][]types.Address{
		types.RoleAdmin:  {admin},
		types.RoleSetter: {setter},
	})
	te.events = nil

	te.engine = referral.NewEngine(logging.NewTestLogger(), te.broker, te.roles, dibsAddress)
	return te
}

func (te *testEngine) lastEvent() events.Event {
	if len(te.events) == 0 {
		return nil
	}
	return te.events[len(te.events)-1]
}
