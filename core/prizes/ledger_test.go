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

package prizes_test

import (
	"context"
	"strings"
	"testing"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/prizes"
	"code.dibs.finance/dibs/core/prizes/mocks"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	self   = types.Address{0x10}
	winner = types.Address{0x01}
	other  = types.Address{0x02}
	tokenA = types.Address{0xaa}
	tokenB = types.Address{0xbb}
)

type testLedger struct {
	ledger *prizes.Ledger
	broker *mocks.MockBroker
	tokens *mocks.MockTokens
	events []events.Event
}

func newLedger(t *testing.T) *testLedger {
	t.Helper()
	ctrl := gomock.NewController(t)
	tl := &testLedger{
		broker: mocks.NewMockBroker(ctrl),
		tokens: mocks.NewMockTokens(ctrl),
	}
	tl.broker.EXPECT().Send(gomock.Any()).Do(func(evt events.Event) {
		tl.events = append(tl.events, evt)
	}).AnyTimes()
	tl.ledger = prizes.New(logging.NewTestLogger(), tl.broker, tl.tokens, self)
	return tl
}

func TestLedger(t *testing.T) {
	t.Run("deposits accumulate per token", testDeposit)
	t.Run("deposits overflowing a balance are rejected", testDepositOverflow)
	t.Run("claim pays every balance in one batch", testClaimReward)
	t.Run("claim with nothing left is a no-op", testClaimNothing)
	t.Run("failed payout keeps the balances", testClaimFailedPayout)
	t.Run("claim a single token", testClaimToken)
	t.Run("state survives a checkpoint", testCheckpoint)
}

func testDeposit(t *testing.T) {
	tl := newLedger(t)
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: winner, Token: tokenB, Amount: num.NewUint(5)}))
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: winner, Token: tokenA, Amount: num.NewUint(10)}))
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: winner, Token: tokenB, Amount: num.NewUint(5)}))
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: other, Token: tokenA, Amount: num.UintZero()}))

	balances := tl.ledger.UserTokensAndBalance(winner)
	require.Len(t, balances, 2)
	assert.Equal(t, tokenB, balances[0].Token)
	assert.Equal(t, "10", balances[0].Amount.String())
	assert.Equal(t, tokenA, balances[1].Token)
	assert.Equal(t, "10", balances[1].Amount.String())
	assert.Empty(t, tl.ledger.UserTokensAndBalance(other))
}

func testDepositOverflow(t *testing.T) {
	tl := newLedger(t)
	maxUint := num.MustUintFromString(strings.Repeat("f", 64), 16)
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: winner, Token: tokenA, Amount: maxUint}))

	err := tl.ledger.Deposit(
		types.Prize{Winner: other, Token: tokenA, Amount: num.NewUint(3)},
		types.Prize{Winner: winner, Token: tokenA, Amount: num.NewUint(1)},
	)
	assert.ErrorIs(t, err, types.ErrBalanceOverflow)
	assert.Equal(t, maxUint.String(), tl.ledger.Balance(winner, tokenA).String())
	assert.True(t, tl.ledger.Balance(other, tokenA).IsZero())

	// two prizes of the same batch add up
	half := num.UintZero().Div(maxUint, num.NewUint(2))
	err = tl.ledger.Deposit(
		types.Prize{Winner: other, Token: tokenB, Amount: half},
		types.Prize{Winner: other, Token: tokenB, Amount: half},
		types.Prize{Winner: other, Token: tokenB, Amount: num.NewUint(2)},
	)
	assert.ErrorIs(t, err, types.ErrBalanceOverflow)
	assert.Empty(t, tl.ledger.UserTokensAndBalance(other))
}

func testClaimReward(t *testing.T) {
	tl := newLedger(t)
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: winner, Token: tokenA, Amount: num.NewUint(10)}))
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: winner, Token: tokenB, Amount: num.NewUint(20)}))

	tl.tokens.EXPECT().Transfer(gomock.Any(),
		types.Transfer{Token: tokenA, From: self, To: other, Amount: num.NewUint(10)},
		types.Transfer{Token: tokenB, From: self, To: other, Amount: num.NewUint(20)},
	).Return(nil).Times(1)

	require.NoError(t, tl.ledger.ClaimReward(context.Background(), winner, other))
	assert.True(t, tl.ledger.Balance(winner, tokenA).IsZero())
	assert.True(t, tl.ledger.Balance(winner, tokenB).IsZero())

	// the tokens are still listed with a zero balance
	assert.Len(t, tl.ledger.UserTokensAndBalance(winner), 2)

	require.Len(t, tl.events, 1)
	evt, ok := tl.events[0].(*events.PrizeClaimed)
	require.True(t, ok)
	assert.Equal(t, self, evt.Source)
	assert.Len(t, evt.Balances, 2)

	// the second claim does not transfer anything
	require.NoError(t, tl.ledger.ClaimReward(context.Background(), winner, other))
	assert.Len(t, tl.events, 1)
}

func testClaimNothing(t *testing.T) {
	tl := newLedger(t)
	require.NoError(t, tl.ledger.ClaimReward(context.Background(), winner, winner))
	assert.Empty(t, tl.events)
}

func testClaimFailedPayout(t *testing.T) {
	tl := newLedger(t)
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: winner, Token: tokenA, Amount: num.NewUint(10)}))
	tl.tokens.EXPECT().Transfer(gomock.Any(), gomock.Any()).Return(types.ErrTransferFailed)

	err := tl.ledger.ClaimReward(context.Background(), winner, winner)
	assert.ErrorIs(t, err, types.ErrTransferFailed)
	assert.Equal(t, "10", tl.ledger.Balance(winner, tokenA).String())
	assert.Empty(t, tl.events)
}

func testClaimToken(t *testing.T) {
	ctx := context.Background()
	tl := newLedger(t)
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: winner, Token: tokenA, Amount: num.NewUint(10)}))
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: winner, Token: tokenB, Amount: num.NewUint(20)}))

	assert.ErrorIs(t, tl.ledger.ClaimToken(ctx, other, tokenA, other), types.ErrNotWinner)

	tl.tokens.EXPECT().Transfer(gomock.Any(),
		types.Transfer{Token: tokenB, From: self, To: other, Amount: num.NewUint(20)},
	).Return(nil).Times(1)
	require.NoError(t, tl.ledger.ClaimToken(ctx, winner, tokenB, other))
	assert.True(t, tl.ledger.Balance(winner, tokenB).IsZero())
	assert.Equal(t, "10", tl.ledger.Balance(winner, tokenA).String())
	require.Len(t, tl.events, 1)

	assert.ErrorIs(t, tl.ledger.ClaimToken(ctx, winner, tokenB, other), types.ErrAlreadyClaimed)
	assert.Len(t, tl.events, 1)
}

func testCheckpoint(t *testing.T) {
	tl := newLedger(t)
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: winner, Token: tokenA, Amount: num.NewUint(10)}))
	require.NoError(t, tl.ledger.Deposit(types.Prize{Winner: other, Token: tokenB, Amount: num.NewUint(3)}))

	data, err := tl.ledger.Checkpoint()
	require.NoError(t, err)

	loaded := newLedger(t)
	require.NoError(t, loaded.ledger.Load(data))
	assert.Equal(t, "10", loaded.ledger.Balance(winner, tokenA).String())
	assert.Equal(t, "3", loaded.ledger.Balance(other, tokenB).String())
	assert.Equal(t, types.PrizesCheckpoint, loaded.ledger.Name())
}
