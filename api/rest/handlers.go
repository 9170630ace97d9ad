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
	"fmt"
	"net/http"
	"strconv"
	"time"

	"code.dibs.finance/dibs/core/processor"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/common"
	"github.com/julienschmidt/httprouter"
)

type StatusResponse struct {
	Contracts   processor.Contracts `json:"contracts"`
	Time        time.Time           `json:"time"`
	ActiveRound uint64              `json:"activeRound"`
	ActiveDay   uint64              `json:"activeDay"`
	Checkpoint  common.Hash         `json:"checkpoint"`
}

type EventResponse struct {
	Sequence uint64      `json:"sequence"`
	Type     string      `json:"type"`
	Payload  interface{} `json:"payload"`
}

type CodeResponse struct {
	Name  string        `json:"name"`
	Code  types.Code    `json:"code"`
	Owner types.Address `json:"owner"`
}

type AccountResponse struct {
	Address       types.Address     `json:"address"`
	Code          types.Code        `json:"code"`
	CodeName      string            `json:"codeName"`
	Parent        types.Address     `json:"parent"`
	Grandparent   types.Address     `json:"grandparent"`
	ReferrerTier  uint32            `json:"referrerTier"`
	UserTier      uint32            `json:"userTier"`
	Blacklisted   bool              `json:"blacklisted"`
	LotteryRounds []uint64          `json:"lotteryRounds"`
	Balances      []BalanceResponse `json:"balances"`
}

type BalanceResponse struct {
	Token     types.Address `json:"token"`
	Amount    *num.Uint     `json:"amount"`
	Formatted string        `json:"formatted"`
}

type RoundResponse struct {
	Round        uint64          `json:"round"`
	Decided      bool            `json:"decided"`
	Winners      []types.Address `json:"winners"`
	TotalTickets uint64          `json:"totalTickets"`
}

type DayResponse struct {
	Day       uint64          `json:"day"`
	Decided   bool            `json:"decided"`
	Referrers []types.Address `json:"referrers"`
}

type PairResponse struct {
	Pair      types.Address   `json:"pair"`
	Rewarders []types.Address `json:"rewarders"`
}

func (s *Server) Status(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	resp := StatusResponse{Contracts: s.proc.Contracts()}
	s.proc.Query(func(e *processor.Engines) {
		resp.Time = e.Now
		resp.ActiveRound = e.Accountant.ActiveLotteryRound()
		resp.ActiveDay = e.Accountant.ActiveDay()
	})
	if last := s.proc.LastCheckpoint(); last != nil {
		resp.Checkpoint = last.Hash
	}
	writeSuccess(w, resp)
}

func (s *Server) Events(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var since uint64
	if q := r.URL.Query().Get("since"); q != "" {
		v, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			writeError(w, fmt.Errorf("%w: since must be a sequence number", ErrInvalidRequest))
			return
		}
		since = v
	}
	evts := s.history.Since(since)
	resp := make([]EventResponse, 0, len(evts))
	for _, e := range evts {
		resp = append(resp, EventResponse{Sequence: e.Sequence(), Type: e.Type().String(), Payload: e})
	}
	writeSuccess(w, resp)
}

func (s *Server) Code(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")
	code := types.CodeFromName(name)
	var (
		owner types.Address
		ok    bool
	)
	s.proc.Query(func(e *processor.Engines) {
		owner, ok = e.Registry.CodeOwner(code)
	})
	if !ok {
		writeError(w, fmt.Errorf("%w: code %q", ErrNotFound, name))
		return
	}
	writeSuccess(w, CodeResponse{Name: name, Code: code, Owner: owner})
}

func (s *Server) Account(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	addr, err := types.AddressFromHex(ps.ByName("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	resp := AccountResponse{Address: addr}
	s.proc.Query(func(e *processor.Engines) {
		resp.Code = e.Registry.AddressToCode(addr)
		resp.CodeName = e.Registry.GetCodeName(addr)
		resp.Parent = e.Registry.Parent(addr)
		resp.Grandparent = e.Registry.Grandparent(addr)
		resp.ReferrerTier = e.Accountant.ReferrerTier(addr)
		resp.UserTier = e.Accountant.UserTier(addr)
		resp.Blacklisted = e.Accountant.IsBlacklisted(addr)
		resp.LotteryRounds = e.Accountant.UserLotteryRounds(addr)
		resp.Balances = balances(e, e.Accountant.UserTokensAndBalance(addr))
	})
	writeSuccess(w, resp)
}

func (s *Server) Round(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	round, err := strconv.ParseUint(ps.ByName("round"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid round", ErrInvalidRequest))
		return
	}
	resp := RoundResponse{Round: round}
	s.proc.Query(func(e *processor.Engines) {
		resp.Decided = e.Lottery.IsRoundDecided(round)
		resp.Winners = e.Lottery.RoundWinners(round)
		resp.TotalTickets = e.Accountant.TotalRoundTickets(round)
	})
	writeSuccess(w, resp)
}

func (s *Server) Day(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	day, err := strconv.ParseUint(ps.ByName("day"), 10, 64)
	if err != nil {
		writeError(w, fmt.Errorf("%w: invalid day", ErrInvalidRequest))
		return
	}
	resp := DayResponse{Day: day}
	s.proc.Query(func(e *processor.Engines) {
		resp.Decided = e.Leaderboard.IsDayDecided(day)
		resp.Referrers = e.Leaderboard.TopReferrers(day)
	})
	writeSuccess(w, resp)
}

func (s *Server) Prizes(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	addr, err := types.AddressFromHex(ps.ByName("address"))
	if err != nil {
		writeError(w, err)
		return
	}
	var resp []BalanceResponse
	s.proc.Query(func(e *processor.Engines) {
		resp = balances(e, e.Prizes.UserTokensAndBalance(addr))
	})
	writeSuccess(w, resp)
}

func (s *Server) Pairs(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	var resp []PairResponse
	s.proc.Query(func(e *processor.Engines) {
		pairs := e.Factory.AllPairs()
		resp = make([]PairResponse, 0, len(pairs))
		for _, p := range pairs {
			resp = append(resp, PairResponse{Pair: p, Rewarders: e.Factory.PairRewarders(p)})
		}
	})
	writeSuccess(w, resp)
}

func balances(e *processor.Engines, in []types.TokenBalance) []BalanceResponse {
	out := make([]BalanceResponse, 0, len(in))
	for _, b := range in {
		out = append(out, BalanceResponse{Token: b.Token, Amount: b.Amount, Formatted: e.Tokens.Format(b.Token, b.Amount)})
	}
	return out
}
