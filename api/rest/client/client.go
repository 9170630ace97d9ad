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

// Package client submits attested results and signed user requests to the
// REST API of a node.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"code.dibs.finance/dibs/api/rest"

	"github.com/cenkalti/backoff/v4"
)

const defaultAddress = "http://127.0.0.1:3003"

// Error is a rejection returned by the node.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("node replied %d: %s", e.Status, e.Message)
}

type Client struct {
	clt     *http.Client
	base    *url.URL
	retries uint64
	backoff func() backoff.BackOff
}

// New returns a client retrying up to retries times on network failures,
// rate limits and server errors.
func New(addr string, retries uint64) (*Client, error) {
	base, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		clt:     &http.Client{Timeout: 10 * time.Second},
		base:    base,
		retries: retries,
		backoff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}, nil
}

func NewDefault() (*Client, error) {
	return New(defaultAddress, 3)
}

// WithBackOff replaces the retry policy, tests use a constant one.
func (c *Client) WithBackOff(f func() backoff.BackOff) *Client {
	c.backoff = f
	return c
}

func (c *Client) Status(ctx context.Context) (*rest.StatusResponse, error) {
	resp := &rest.StatusResponse{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/status", nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SubmitClaim(ctx context.Context, req *rest.ClaimRequest) (*rest.SubmitResponse, error) {
	return c.submit(ctx, "/api/v1/relay/claim", req)
}

func (c *Client) SubmitClaimExcess(ctx context.Context, req *rest.ClaimExcessRequest) (*rest.SubmitResponse, error) {
	return c.submit(ctx, "/api/v1/relay/claim-excess", req)
}

func (c *Client) SubmitRoundWinners(ctx context.Context, req *rest.RoundWinnersRequest) (*rest.SubmitResponse, error) {
	return c.submit(ctx, "/api/v1/relay/round-winners", req)
}

func (c *Client) SubmitTopReferrers(ctx context.Context, req *rest.TopReferrersRequest) (*rest.SubmitResponse, error) {
	return c.submit(ctx, "/api/v1/relay/top-referrers", req)
}

func (c *Client) SubmitPairTopReferrers(ctx context.Context, req *rest.PairTopReferrersRequest) (*rest.SubmitResponse, error) {
	return c.submit(ctx, "/api/v1/relay/pair-top-referrers", req)
}

func (c *Client) Register(ctx context.Context, req *rest.RegisterRequest) (*rest.SubmitResponse, error) {
	return c.submit(ctx, "/api/v1/users/register", req)
}

func (c *Client) ClaimLocal(ctx context.Context, req *rest.LocalClaimRequest) (*rest.SubmitResponse, error) {
	return c.submit(ctx, "/api/v1/users/claim", req)
}

func (c *Client) ClaimPrize(ctx context.Context, req *rest.PrizeClaimRequest) (*rest.SubmitResponse, error) {
	return c.submit(ctx, "/api/v1/users/claim-prize", req)
}

func (c *Client) submit(ctx context.Context, p string, body interface{}) (*rest.SubmitResponse, error) {
	resp := &rest.SubmitResponse{}
	if err := c.do(ctx, http.MethodPost, p, body, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, p string, body, into interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return err
		}
	}
	u := *c.base
	u.Path = path.Join(u.Path, p)

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Add("Content-Type", "application/json")
		res, err := c.clt.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		buf, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		if res.StatusCode != http.StatusOK {
			herr := rest.HTTPError{}
			_ = json.Unmarshal(buf, &herr)
			rerr := &Error{Status: res.StatusCode, Message: herr.ErrorStr}
			if res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= http.StatusInternalServerError {
				return rerr
			}
			return backoff.Permanent(rerr)
		}
		if err := json.Unmarshal(buf, into); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.retries), ctx)
	return backoff.Retry(op, policy)
}
