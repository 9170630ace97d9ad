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

package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"code.dibs.finance/dibs/api/rest"
	"code.dibs.finance/dibs/config/encoding"
	"code.dibs.finance/dibs/core/broker"
	"code.dibs.finance/dibs/core/clock"
	"code.dibs.finance/dibs/core/muon"
	"code.dibs.finance/dibs/core/muon/muontest"
	"code.dibs.finance/dibs/core/processor"
	"code.dibs.finance/dibs/core/repository"
	"code.dibs.finance/dibs/core/types"
	vghttp "code.dibs.finance/dibs/libs/http"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = types.Address{0xad}
	setter   = types.Address{0x5e}
	platform = types.Address{0x9f}
	dibsAddr = types.Address{0xd1}
	usdc     = types.Address{0xa1}
	winner   = types.Address{0x77}

	start = time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
)

type testAPI struct {
	*httptest.Server
	proc    *processor.Processor
	network *muontest.Network
}

func newTestAPI(t *testing.T, limiter *vghttp.RateLimit) *testAPI {
	t.Helper()
	log := logging.NewTestLogger()
	network := muontest.NewNetwork(t, num.NewUint(1337))

	g := processor.DefaultGenesisState()
	g.Contracts = processor.Contracts{
		Dibs:     dibsAddr,
		Lottery:  types.Address{0x10},
		Relay:    types.Address{0x3a},
		Factory:  types.Address{0xfa},
		Platform: platform,
	}
	g.Roles = map[types.Role][]types.Address{
		types.RoleAdmin:    {admin},
		types.RoleSetter:   {setter},
		types.RolePlatform: {platform},
	}
	g.Schedule.Start = encoding.Timestamp{Time: start}
	g.Muon = processor.MuonState{
		AppID:     network.AppID,
		PublicKey: network.Group.Public,
		Gateway:   network.Gateway.Address,
	}
	g.Tokens = []processor.TokenState{{
		Address:  usdc,
		Symbol:   "USDC",
		Decimals: 6,
		Balances: map[types.Address]*num.Uint{dibsAddr: num.NewUint(1000)},
	}}

	b := broker.New(log, broker.NewDefaultConfig())
	history := broker.NewHistory(100)
	b.Subscribe(history)
	// the first round is over
	svc, _ := clock.NewFake(start.Add(8 * 24 * time.Hour))

	proc, err := processor.New(context.Background(), log, processor.NewDefaultConfig(), b, svc, nil, g, repository.NewRandomSeeds(nil))
	require.NoError(t, err)

	srv := httptest.NewServer(rest.New(log, rest.NewDefaultConfig(), proc, history, limiter).WithStreams(b))
	t.Cleanup(srv.Close)
	return &testAPI{Server: srv, proc: proc, network: network}
}

func (a *testAPI) get(t *testing.T, path string, into interface{}) int {
	t.Helper()
	res, err := http.Get(a.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	if into != nil && res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(into))
	}
	return res.StatusCode
}

func (a *testAPI) post(t *testing.T, path string, body interface{}) (int, rest.SubmitResponse) {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(a.URL+path, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer res.Body.Close()
	resp := rest.SubmitResponse{}
	if res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	}
	return res.StatusCode, resp
}

func TestReads(t *testing.T) {
	api := newTestAPI(t, nil)
	user := types.Address{0x01}
	require.NoError(t, api.proc.Deliver(context.Background(), "register", func(ctx context.Context, e *processor.Engines) error {
		_, err := e.Registry.RegisterUnderRoot(ctx, user, "alice")
		return err
	}))

	t.Run("responses carry a request id", func(t *testing.T) {
		res, err := http.Get(api.URL + "/api/v1/status")
		require.NoError(t, err)
		res.Body.Close()
		assert.Len(t, res.Header.Get("X-Request-Id"), 36)
	})

	t.Run("status", func(t *testing.T) {
		status := rest.StatusResponse{}
		require.Equal(t, http.StatusOK, api.get(t, "/api/v1/status", &status))
		assert.Equal(t, dibsAddr, status.Contracts.Dibs)
		assert.Equal(t, uint64(1), status.ActiveRound)
		assert.Equal(t, uint64(8), status.ActiveDay)
		assert.Equal(t, api.proc.LastCheckpoint().Hash, status.Checkpoint)
	})

	t.Run("codes", func(t *testing.T) {
		code := rest.CodeResponse{}
		require.Equal(t, http.StatusOK, api.get(t, "/api/v1/codes/alice", &code))
		assert.Equal(t, user, code.Owner)
		assert.Equal(t, types.CodeFromName("alice"), code.Code)
		assert.Equal(t, http.StatusNotFound, api.get(t, "/api/v1/codes/bob", nil))
	})

	t.Run("accounts", func(t *testing.T) {
		account := rest.AccountResponse{}
		require.Equal(t, http.StatusOK, api.get(t, "/api/v1/accounts/"+user.Hex(), &account))
		assert.Equal(t, "alice", account.CodeName)
		assert.Equal(t, platform, account.Parent)
		assert.Equal(t, http.StatusBadRequest, api.get(t, "/api/v1/accounts/nope", nil))
	})

	t.Run("events", func(t *testing.T) {
		var evts []rest.EventResponse
		require.Equal(t, http.StatusOK, api.get(t, "/api/v1/events", &evts))
		require.NotEmpty(t, evts)
		last := evts[len(evts)-1]
		assert.Equal(t, "CodeRegistered", last.Type)

		var after []rest.EventResponse
		require.Equal(t, http.StatusOK, api.get(t, "/api/v1/events?since="+jsonNumber(last.Sequence), &after))
		assert.Empty(t, after)
		assert.Equal(t, http.StatusBadRequest, api.get(t, "/api/v1/events?since=x", nil))
	})

	t.Run("invalid round", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, api.get(t, "/api/v1/lottery/rounds/x", nil))
	})
}

func jsonNumber(v uint64) string {
	buf, _ := json.Marshal(v)
	return string(buf)
}

func TestSubmitRoundWinners(t *testing.T) {
	api := newTestAPI(t, nil)
	winners := []types.Address{winner}
	req := rest.RoundWinnersRequest{
		Round:       0,
		Winners:     winners,
		Attestation: api.network.Attest(t, common.Hash{0x01}, muon.RoundWinnersSignData(0, winners)),
	}

	status, resp := api.post(t, "/api/v1/relay/round-winners", req)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.Equal(t, api.proc.LastCheckpoint().Hash, resp.Checkpoint)

	round := rest.RoundResponse{}
	require.Equal(t, http.StatusOK, api.get(t, "/api/v1/lottery/rounds/0", &round))
	assert.True(t, round.Decided)
	assert.Equal(t, winners, round.Winners)

	// the request is consumed
	status, _ = api.post(t, "/api/v1/relay/round-winners", req)
	assert.Equal(t, http.StatusConflict, status)

	// the attestation does not cover other winners
	tampered := rest.RoundWinnersRequest{
		Round:       0,
		Winners:     []types.Address{{0x66}},
		Attestation: api.network.Attest(t, common.Hash{0x02}, muon.RoundWinnersSignData(0, winners)),
	}
	status, _ = api.post(t, "/api/v1/relay/round-winners", tampered)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSubmitClaim(t *testing.T) {
	api := newTestAPI(t, nil)
	caller := muontest.NewGatewaySigner(t)
	to := types.Address{0x02}

	newRequest := func(reqID common.Hash, amount uint64) *rest.ClaimRequest {
		balance := num.NewUint(100)
		return &rest.ClaimRequest{
			Caller:              caller.Address,
			Token:               usdc,
			Amount:              num.NewUint(amount),
			To:                  to,
			AccumulativeBalance: balance,
			Attestation:         api.network.Attest(t, reqID, muon.ClaimSignData(caller.Address, usdc, balance)),
		}
	}

	t.Run("signed claims are paid", func(t *testing.T) {
		req := newRequest(common.Hash{0x01}, 60)
		require.NoError(t, req.Sign(caller.Key))
		status, resp := api.post(t, "/api/v1/relay/claim", req)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, resp.Success)

		api.proc.Query(func(e *processor.Engines) {
			assert.Equal(t, "60", e.Tokens.BalanceOf(usdc, to).String())
			assert.Equal(t, "60", e.Accountant.ClaimedBalance(usdc, caller.Address).String())
		})
	})

	t.Run("claims above the attested balance are rejected", func(t *testing.T) {
		req := newRequest(common.Hash{0x02}, 50)
		require.NoError(t, req.Sign(caller.Key))
		status, _ := api.post(t, "/api/v1/relay/claim", req)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("claims must be signed by the caller", func(t *testing.T) {
		req := newRequest(common.Hash{0x03}, 10)
		require.NoError(t, req.Sign(muontest.NewGatewaySigner(t).Key))
		status, _ := api.post(t, "/api/v1/relay/claim", req)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("malformed bodies are rejected", func(t *testing.T) {
		res, err := http.Post(api.URL+"/api/v1/relay/claim", "application/json", bytes.NewReader([]byte("{")))
		require.NoError(t, err)
		res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestUserRequests(t *testing.T) {
	api := newTestAPI(t, nil)
	ctx := context.Background()
	caller := muontest.NewGatewaySigner(t)
	to := types.Address{0x02}
	router := types.Address{0x0e}
	lotteryAddr := types.Address{0x10}

	t.Run("signed registrations are accepted once", func(t *testing.T) {
		req := &rest.RegisterRequest{Caller: caller.Address, Name: "bob"}
		require.NoError(t, req.Sign(caller.Key))
		status, resp := api.post(t, "/api/v1/users/register", req)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, resp.Success)
		api.proc.Query(func(e *processor.Engines) {
			assert.Equal(t, "bob", e.Registry.GetCodeName(caller.Address))
			assert.Equal(t, platform, e.Registry.Parent(caller.Address))
		})

		status, _ = api.post(t, "/api/v1/users/register", req)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("registrations must be signed by the caller", func(t *testing.T) {
		req := &rest.RegisterRequest{Caller: types.Address{0x03}, Name: "carol"}
		require.NoError(t, req.Sign(caller.Key))
		status, _ := api.post(t, "/api/v1/users/register", req)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("accrued balances are claimed once", func(t *testing.T) {
		require.NoError(t, api.proc.Deliver(ctx, "reward", func(ctx context.Context, e *processor.Engines) error {
			if err := e.Roles.Grant(ctx, admin, types.RoleRouter, router); err != nil {
				return err
			}
			e.Tokens.Mint(usdc, router, num.NewUint(100))
			if err := e.Accountant.SetPercentages(ctx, setter, types.Percentages{Referrer: 1_000_000}); err != nil {
				return err
			}
			if err := e.Accountant.SetTierToPercentage(ctx, setter, 0, 1_000_000); err != nil {
				return err
			}
			return e.Accountant.Reward(ctx, router, winner, types.CodeFromName("bob"), num.NewUint(100), num.NewUint(100), usdc)
		}))

		req := &rest.LocalClaimRequest{
			Caller:         caller.Address,
			Token:          usdc,
			Amount:         num.NewUint(40),
			To:             to,
			ClaimedBalance: num.UintZero(),
		}
		require.NoError(t, req.Sign(caller.Key))
		status, _ := api.post(t, "/api/v1/users/claim", req)
		require.Equal(t, http.StatusOK, status)
		api.proc.Query(func(e *processor.Engines) {
			assert.Equal(t, "40", e.Tokens.BalanceOf(usdc, to).String())
			assert.Equal(t, "40", e.Accountant.ClaimedBalance(usdc, caller.Address).String())
		})

		// the same signed request cannot be replayed
		status, _ = api.post(t, "/api/v1/users/claim", req)
		assert.Equal(t, http.StatusConflict, status)
		api.proc.Query(func(e *processor.Engines) {
			assert.Equal(t, "40", e.Tokens.BalanceOf(usdc, to).String())
		})
	})

	t.Run("prizes are claimed per token", func(t *testing.T) {
		require.NoError(t, api.proc.Deliver(ctx, "prize", func(_ context.Context, e *processor.Engines) error {
			e.Tokens.Mint(usdc, lotteryAddr, num.NewUint(30))
			return e.Prizes.Deposit(types.Prize{Winner: caller.Address, Token: usdc, Amount: num.NewUint(30)})
		}))

		req := &rest.PrizeClaimRequest{
			Caller: caller.Address,
			Ledger: lotteryAddr,
			Token:  usdc,
			Amount: num.NewUint(30),
			To:     to,
		}
		require.NoError(t, req.Sign(caller.Key))
		status, _ := api.post(t, "/api/v1/users/claim-prize", req)
		require.Equal(t, http.StatusOK, status)
		api.proc.Query(func(e *processor.Engines) {
			assert.Equal(t, "70", e.Tokens.BalanceOf(usdc, to).String())
			assert.True(t, e.Prizes.Balance(caller.Address, usdc).IsZero())
		})

		status, _ = api.post(t, "/api/v1/users/claim-prize", req)
		assert.Equal(t, http.StatusConflict, status)

		req.Ledger = types.Address{0x42}
		require.NoError(t, req.Sign(caller.Key))
		status, _ = api.post(t, "/api/v1/users/claim-prize", req)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestSubmitPairTopReferrers(t *testing.T) {
	api := newTestAPI(t, nil)
	req := rest.PairTopReferrersRequest{
		Rewarder:    types.Address{0x42},
		Day:         1,
		Referrers:   []types.Address{winner},
		Attestation: api.network.Attest(t, common.Hash{0x01}, muon.PairTopReferrersSignData(types.Address{0x42}, 1, []types.Address{winner})),
	}
	status, _ := api.post(t, "/api/v1/relay/pair-top-referrers", req)
	assert.Equal(t, http.StatusBadRequest, status)

	var pairs []rest.PairResponse
	require.Equal(t, http.StatusOK, api.get(t, "/api/v1/pairs", &pairs))
	assert.Empty(t, pairs)
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	limiter, err := vghttp.NewRateLimit(ctx, vghttp.RateLimitConfig{
		CoolDown: encoding.Duration{Duration: time.Hour},
	}, clockwork.NewFakeClock())
	require.NoError(t, err)

	api := newTestAPI(t, limiter)
	referrers := []types.Address{winner}
	req := rest.TopReferrersRequest{
		Day:         1,
		Referrers:   referrers,
		Attestation: api.network.Attest(t, common.Hash{0x01}, muon.TopReferrersSignData(1, referrers)),
	}

	status, _ := api.post(t, "/api/v1/relay/top-referrers", req)
	assert.Equal(t, http.StatusOK, status)
	status, _ = api.post(t, "/api/v1/relay/top-referrers", req)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestStreamEvents(t *testing.T) {
	api := newTestAPI(t, nil)
	url := "ws" + strings.TrimPrefix(api.URL, "http") + "/api/v1/events/stream"
	conn, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer res.Body.Close()
	defer conn.Close()

	user := types.Address{0x01}
	require.NoError(t, api.proc.Deliver(context.Background(), "register", func(ctx context.Context, e *processor.Engines) error {
		_, err := e.Registry.RegisterUnderRoot(ctx, user, "alice")
		return err
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	evt := rest.EventResponse{}
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, "CodeRegistered", evt.Type)
}
