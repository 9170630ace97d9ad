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
	"errors"
	"testing"

	"code.dibs.finance/dibs/core/muon"
	"code.dibs.finance/dibs/core/muon/mocks"
	"code.dibs.finance/dibs/core/muon/muontest"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRelay struct {
	*muon.Relay
	gw          *testGateway
	accountant  *mocks.MockAccountant
	lottery     *mocks.MockLottery
	leaderboard *mocks.MockLeaderboard
}

func newRelay(t *testing.T) *testRelay {
	t.Helper()
	ctrl := gomock.NewController(t)
	tr := &testRelay{
		gw:          newGateway(t),
		accountant:  mocks.NewMockAccountant(ctrl),
		lottery:     mocks.NewMockLottery(ctrl),
		leaderboard: mocks.NewMockLeaderboard(ctrl),
	}
	tr.Relay = muon.NewRelay(testLogger(), relayAddress, platform, tr.gw.Gateway, tr.gw.roles, tr.accountant, tr.lottery, tr.leaderboard)
	return tr
}

func TestRelay(t *testing.T) {
	t.Run("claim on behalf of the caller", testRelayClaim)
	t.Run("a rejected claim leaves the request unconsumed", testRelayFailedApply)
	t.Run("claim the platform excess", testRelayClaimExcess)
	t.Run("round winners", testRelayRoundWinners)
	t.Run("top referrers", testRelayTopReferrers)
	t.Run("pair top referrers are bound to the rewarder", testRelayPairTopReferrers)
	t.Run("invalid attestations never reach the engines", testRelayInvalidAttestation)
}

func testRelayClaim(t *testing.T) {
	ctx := context.Background()
	tr := newRelay(t)
	to := types.Address{0x77}
	balance := num.NewUint(500)
	att := tr.gw.attest(t, common.Hash{0x01}, muon.ClaimSignData(user, token, balance))

	tr.accountant.EXPECT().
		ClaimFor(gomock.Any(), relayAddress, user, token, num.NewUint(200), to, balance).
		Return(nil)
	require.NoError(t, tr.Claim(ctx, user, token, num.NewUint(200), to, balance, att))
	assert.True(t, tr.gw.IsConsumed(att.ReqID))

	// the attestation cannot be used twice
	err := tr.Claim(ctx, user, token, num.NewUint(200), to, balance, att)
	assert.ErrorIs(t, err, types.ErrRequestAlreadyConsumed)
}

func testRelayFailedApply(t *testing.T) {
	ctx := context.Background()
	tr := newRelay(t)
	balance := num.NewUint(500)
	att := tr.gw.attest(t, common.Hash{0x02}, muon.ClaimSignData(user, token, balance))

	tr.accountant.EXPECT().
		ClaimFor(gomock.Any(), relayAddress, user, token, gomock.Any(), user, balance).
		Return(types.ErrBalanceTooLow)
	err := tr.Claim(ctx, user, token, num.NewUint(600), user, balance, att)
	assert.ErrorIs(t, err, types.ErrBalanceTooLow)
	assert.False(t, tr.gw.IsConsumed(att.ReqID))

	tr.accountant.EXPECT().
		ClaimFor(gomock.Any(), relayAddress, user, token, num.NewUint(500), user, balance).
		Return(nil)
	require.NoError(t, tr.Claim(ctx, user, token, num.NewUint(500), user, balance, att))
	assert.True(t, tr.gw.IsConsumed(att.ReqID))
}

func testRelayClaimExcess(t *testing.T) {
	ctx := context.Background()
	tr := newRelay(t)
	balance := num.NewUint(1000)
	att := tr.gw.attest(t, common.Hash{0x03}, muon.ClaimSignData(platform, token, balance))

	// the payload is signed for the platform, a user cannot use it
	err := tr.ClaimExcessTokens(ctx, user, token, user, balance, num.NewUint(10), att)
	assert.ErrorIs(t, err, types.ErrMissingRole)

	tr.accountant.EXPECT().
		ClaimExcessTokens(gomock.Any(), relayAddress, token, platform, balance, num.NewUint(10)).
		Return(nil)
	require.NoError(t, tr.ClaimExcessTokens(ctx, platform, token, platform, balance, num.NewUint(10), att))
	assert.True(t, tr.gw.IsConsumed(att.ReqID))
}

func testRelayRoundWinners(t *testing.T) {
	ctx := context.Background()
	tr := newRelay(t)
	winners := []types.Address{{0x01}, {0x02}}
	att := tr.gw.attest(t, common.Hash{0x04}, muon.RoundWinnersSignData(3, winners))

	tr.lottery.EXPECT().SetRoundWinners(gomock.Any(), relayAddress, uint64(3), winners).Return(nil)
	require.NoError(t, tr.SetRoundWinners(ctx, 3, winners, att))

	// signed for round 3, not round 4
	att = tr.gw.attest(t, common.Hash{0x05}, muon.RoundWinnersSignData(3, winners))
	err := tr.SetRoundWinners(ctx, 4, winners, att)
	assert.ErrorIs(t, err, types.ErrInvalidGroupSignature)
}

func testRelayTopReferrers(t *testing.T) {
	ctx := context.Background()
	tr := newRelay(t)
	refs := []types.Address{{0x03}}
	att := tr.gw.attest(t, common.Hash{0x06}, muon.TopReferrersSignData(12, refs))

	tr.leaderboard.EXPECT().SetTopReferrers(gomock.Any(), relayAddress, uint64(12), refs).Return(types.ErrDayNotOver)
	assert.ErrorIs(t, tr.SetTopReferrers(ctx, 12, refs, att), types.ErrDayNotOver)
	assert.False(t, tr.gw.IsConsumed(att.ReqID))

	tr.leaderboard.EXPECT().SetTopReferrers(gomock.Any(), relayAddress, uint64(12), refs).Return(nil)
	require.NoError(t, tr.SetTopReferrers(ctx, 12, refs, att))
	assert.True(t, tr.gw.IsConsumed(att.ReqID))
}

func testRelayPairTopReferrers(t *testing.T) {
	ctx := context.Background()
	tr := newRelay(t)
	rewarder := types.Address{0xbe}
	board := mocks.NewMockLeaderboard(gomock.NewController(t))
	refs := []types.Address{{0x03}, {0x04}}

	// an attestation for the main leaderboard is not valid for a pair
	att := tr.gw.attest(t, common.Hash{0x07}, muon.TopReferrersSignData(2, refs))
	err := tr.SetPairTopReferrers(ctx, rewarder, board, 2, refs, att)
	assert.ErrorIs(t, err, types.ErrInvalidGroupSignature)

	att = tr.gw.attest(t, common.Hash{0x08}, muon.PairTopReferrersSignData(rewarder, 2, refs))
	board.EXPECT().SetTopReferrers(gomock.Any(), relayAddress, uint64(2), refs).Return(nil)
	require.NoError(t, tr.SetPairTopReferrers(ctx, rewarder, board, 2, refs, att))
}

func testRelayInvalidAttestation(t *testing.T) {
	ctx := context.Background()
	tr := newRelay(t)
	balance := num.NewUint(500)
	att := tr.gw.attest(t, common.Hash{0x09}, muon.ClaimSignData(user, token, balance))
	att.GatewaySignature = muontest.NewGatewaySigner(t).Sign(t, tr.gw.MessageHash(att.ReqID, muon.ClaimSignData(user, token, balance)))

	err := tr.Claim(ctx, user, token, balance, user, balance, att)
	assert.ErrorIs(t, err, types.ErrInvalidGatewaySignature)
	assert.False(t, errors.Is(err, types.ErrInvalidGroupSignature))
}
