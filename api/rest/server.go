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

// Package rest exposes the engines over HTTP: reads are served from the
// processor under its lock, submissions of attested results go through the
// oracle relay.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"code.dibs.finance/dibs/core/broker"
	"code.dibs.finance/dibs/core/checkpoint"
	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/processor"
	vghttp "code.dibs.finance/dibs/libs/http"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

const (
	maxBodySize     = 1 << 20
	requestIDHeader = "X-Request-Id"
)

type Processor interface {
	Deliver(ctx context.Context, name string, fn func(ctx context.Context, e *processor.Engines) error) error
	Query(fn func(e *processor.Engines))
	LastCheckpoint() *checkpoint.Snapshot
	Contracts() processor.Contracts
}

// History serves the events already sent on the broker.
type History interface {
	Since(seq uint64) []events.Event
}

// Streams subscribes the live event streams to the broker.
type Streams interface {
	Subscribe(s broker.Subscriber) int
	Unsubscribe(k int)
}

type Server struct {
	*httprouter.Router

	log     *logging.Logger
	cfg     Config
	proc    Processor
	history History
	streams Streams
	limiter *vghttp.RateLimit
	srv     *http.Server
}

// New returns the API server, the limiter is optional.
func New(log *logging.Logger, cfg Config, proc Processor, history History, limiter *vghttp.RateLimit) *Server {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	s := &Server{
		Router:  httprouter.New(),
		log:     log,
		cfg:     cfg,
		proc:    proc,
		history: history,
		limiter: limiter,
	}

	s.GET("/api/v1/status", s.observe("status", s.Status))
	s.GET("/api/v1/events", s.observe("events", s.Events))
	s.GET("/api/v1/codes/:name", s.observe("code", s.Code))
	s.GET("/api/v1/accounts/:address", s.observe("account", s.Account))
	s.GET("/api/v1/lottery/rounds/:round", s.observe("round", s.Round))
	s.GET("/api/v1/leaderboard/days/:day", s.observe("day", s.Day))
	s.GET("/api/v1/prizes/:address", s.observe("prizes", s.Prizes))
	s.GET("/api/v1/pairs", s.observe("pairs", s.Pairs))

	s.POST("/api/v1/relay/claim", s.observe("submit_claim", s.SubmitClaim))
	s.POST("/api/v1/relay/claim-excess", s.observe("submit_claim_excess", s.SubmitClaimExcess))
	s.POST("/api/v1/relay/round-winners", s.observe("submit_round_winners", s.SubmitRoundWinners))
	s.POST("/api/v1/relay/top-referrers", s.observe("submit_top_referrers", s.SubmitTopReferrers))
	s.POST("/api/v1/relay/pair-top-referrers", s.observe("submit_pair_top_referrers", s.SubmitPairTopReferrers))

	s.POST("/api/v1/users/register", s.observe("submit_register", s.SubmitRegister))
	s.POST("/api/v1/users/claim", s.observe("submit_local_claim", s.SubmitLocalClaim))
	s.POST("/api/v1/users/claim-prize", s.observe("submit_claim_prize", s.SubmitPrizeClaim))
	return s
}

func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.IP, s.cfg.Port),
		Handler:           vghttp.NewCORS(s.cfg.CORS).Handler(s),
		ReadHeaderTimeout: s.cfg.Timeout.Get(),
		ReadTimeout:       s.cfg.Timeout.Get(),
		WriteTimeout:      s.cfg.Timeout.Get(),
	}
	s.log.Info("starting REST API", logging.String("address", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) observe(name string, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		defer func() { metrics.APIRequestAndTimeREST(name, time.Since(start).Seconds()) }()
		w.Header().Set(requestIDHeader, uuid.NewString())
		h(w, r, ps)
	}
}

// submit rate limits the client, then applies fn as a single call of the
// processor.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, name string, fn func(ctx context.Context, e *processor.Engines) error) {
	if s.limiter != nil {
		if err := s.limiter.NewRequest(name, clientIP(r)); err != nil {
			writeError(w, fmt.Errorf("%w: %s", ErrRateLimited, err.Error()))
			return
		}
	}
	if err := s.proc.Deliver(r.Context(), name, fn); err != nil {
		s.log.Debug("submission rejected",
			logging.String("call", name),
			logging.String("request-id", w.Header().Get(requestIDHeader)),
			logging.Error(err),
		)
		writeError(w, err)
		return
	}
	resp := SubmitResponse{Success: true}
	if last := s.proc.LastCheckpoint(); last != nil {
		resp.Checkpoint = last.Hash
	}
	writeSuccess(w, resp)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func unmarshalBody(r *http.Request, into interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return ErrInvalidRequest
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	return nil
}
