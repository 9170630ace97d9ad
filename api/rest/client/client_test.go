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

package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"code.dibs.finance/dibs/api/rest"
	"code.dibs.finance/dibs/api/rest/client"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replies struct {
	calls  int32
	status []int
}

func (r *replies) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	n := int(atomic.AddInt32(&r.calls, 1)) - 1
	status := r.status[len(r.status)-1]
	if n < len(r.status) {
		status = r.status[n]
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status != http.StatusOK {
		_ = json.NewEncoder(w).Encode(rest.HTTPError{ErrorStr: http.StatusText(status)})
		return
	}
	_ = json.NewEncoder(w).Encode(rest.SubmitResponse{Success: true, Checkpoint: common.Hash{0x01}})
}

func newClient(t *testing.T, h http.Handler, retries uint64) *client.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	clt, err := client.New(srv.URL, retries)
	require.NoError(t, err)
	return clt.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("server errors are retried", func(t *testing.T) {
		h := &replies{status: []int{http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusOK}}
		resp, err := newClient(t, h, 3).SubmitTopReferrers(ctx, &rest.TopReferrersRequest{Day: 1})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, common.Hash{0x01}, resp.Checkpoint)
		assert.Equal(t, int32(3), atomic.LoadInt32(&h.calls))
	})

	t.Run("rejections are not retried", func(t *testing.T) {
		h := &replies{status: []int{http.StatusConflict}}
		_, err := newClient(t, h, 3).SubmitRoundWinners(ctx, &rest.RoundWinnersRequest{})
		require.Error(t, err)
		var rerr *client.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusConflict, rerr.Status)
		assert.Equal(t, http.StatusText(http.StatusConflict), rerr.Message)
		assert.Equal(t, int32(1), atomic.LoadInt32(&h.calls))
	})

	t.Run("retries are bounded", func(t *testing.T) {
		h := &replies{status: []int{http.StatusInternalServerError}}
		_, err := newClient(t, h, 2).SubmitClaim(ctx, &rest.ClaimRequest{})
		var rerr *client.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusInternalServerError, rerr.Status)
		assert.Equal(t, int32(3), atomic.LoadInt32(&h.calls))
	})
}

func TestStatus(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/status", r.URL.Path)
		_ = json.NewEncoder(w).Encode(rest.StatusResponse{ActiveRound: 4, ActiveDay: 30})
	})
	status, err := newClient(t, h, 0).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), status.ActiveRound)
	assert.Equal(t, uint64(30), status.ActiveDay)
}
