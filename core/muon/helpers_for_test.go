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

package muon_test

import (
	"context"
	"testing"

	"code.dibs.finance/dibs/core/access"
	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/muon"
	"code.dibs.finance/dibs/core/muon/mocks"
	"code.dibs.finance/dibs/core/muon/muontest"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
)

var (
	admin        = types.Address{0xad}
	setter       = types.Address{0x5e}
	relayAddress = types.Address{0x3a}
	platform     = types.Address{0x9f}
	user         = types.Address{0x01}
	token        = types.Address{0xa1}

	testAppID = num.NewUint(1337)
)

func testLogger() *logging.Logger {
	return logging.NewTestLogger()
}

type testGateway struct {
	*muon.Gateway
	group   *muontest.GroupSigner
	gateway *muontest.GatewaySigner
	broker  *mocks.MockBroker
	roles   *access.Engine
	events  []events.Event
}

func newGateway(t *testing.T) *testGateway {
	t.Helper()
	ctrl := gomock.NewController(t)
	tg := &testGateway{
		group:   muontest.NewGroupSigner(t),
		gateway: muontest.NewGatewaySigner(t),
		broker:  mocks.NewMockBroker(ctrl),
	}
	tg.broker.EXPECT().Send(gomock.Any()).Do(func(evt events.Event) {
		tg.events = append(tg.events, evt)
	}).AnyTimes()

	tg.roles = access.NewEngine(tg.broker)
	tg.roles.Bootstrap(context.Background(), map[types.Role][]types.Address{
		types.RoleAdmin:    {admin},
		types.RoleSetter:   {setter},
		types.RolePlatform: {platform},
	})
	tg.Gateway = muon.NewGateway(
		testLogger(), tg.broker, tg.roles,
		muon.SchnorrVerifier{}, muon.ECDSAVerifier{},
		testAppID, tg.group.Public, tg.gateway.Address,
	)
	tg.events = nil
	return tg
}

// attest signs signData the way the network does for the request reqID.
func (tg *testGateway) attest(t *testing.T, reqID common.Hash, signData []byte) muon.Attestation {
	t.Helper()
	hash := tg.MessageHash(reqID, signData)
	return muon.Attestation{
		ReqID:            reqID,
		Signature:        tg.group.Sign(t, hash),
		GatewaySignature: tg.gateway.Sign(t, hash),
	}
}
