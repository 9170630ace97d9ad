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

package rest

import (
	"context"
	"net/http"

	"code.dibs.finance/dibs/core/pairrewarder"
	"code.dibs.finance/dibs/core/processor"

	"github.com/julienschmidt/httprouter"
)

func (s *Server) SubmitClaim(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := ClaimRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	s.submit(w, r, "claim", func(ctx context.Context, e *processor.Engines) error {
		return e.Relay.Claim(ctx, req.Caller, req.Token, req.Amount, req.To, req.AccumulativeBalance, req.Attestation)
	})
}

func (s *Server) SubmitClaimExcess(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := ClaimExcessRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	s.submit(w, r, "claim_excess", func(ctx context.Context, e *processor.Engines) error {
		return e.Relay.ClaimExcessTokens(ctx, req.Caller, req.Token, req.To, req.AccPlatformBalance, req.Amount, req.Attestation)
	})
}

func (s *Server) SubmitRoundWinners(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := RoundWinnersRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.submit(w, r, "round_winners", func(ctx context.Context, e *processor.Engines) error {
		return e.Relay.SetRoundWinners(ctx, req.Round, req.Winners, req.Attestation)
	})
}

func (s *Server) SubmitTopReferrers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := TopReferrersRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.submit(w, r, "top_referrers", func(ctx context.Context, e *processor.Engines) error {
		return e.Relay.SetTopReferrers(ctx, req.Day, req.Referrers, req.Attestation)
	})
}

func (s *Server) SubmitPairTopReferrers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := PairTopReferrersRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.submit(w, r, "pair_top_referrers", func(ctx context.Context, e *processor.Engines) error {
		rewarder, ok := e.Factory.Rewarder(req.Rewarder)
		if !ok {
			return pairrewarder.ErrUnknownRewarder(req.Rewarder)
		}
		return e.Relay.SetPairTopReferrers(ctx, req.Rewarder, rewarder, req.Day, req.Referrers, req.Attestation)
	})
}
