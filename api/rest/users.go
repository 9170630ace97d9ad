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
	"crypto/ecdsa"
	"fmt"
	"net/http"

	"code.dibs.finance/dibs/core/muon"
	"code.dibs.finance/dibs/core/pairrewarder"
	"code.dibs.finance/dibs/core/prizes"
	"code.dibs.finance/dibs/core/processor"
	"code.dibs.finance/dibs/core/types"
	vgcrypto "code.dibs.finance/dibs/libs/crypto"
	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/julienschmidt/httprouter"
)

// RegisterRequest registers a code for the caller, under the root when Parent
// is the zero code.
type RegisterRequest struct {
	Caller          types.Address `json:"caller"`
	Name            string        `json:"name"`
	Parent          types.Code    `json:"parent"`
	CallerSignature hexutil.Bytes `json:"callerSignature"`
}

func (r *RegisterRequest) AuthHash() common.Hash {
	return vgcrypto.NewPacked().
		Raw([]byte("register")).
		Raw([]byte(r.Name)).
		Bytes32(r.Parent).
		Keccak256()
}

func (r *RegisterRequest) Sign(key *ecdsa.PrivateKey) error {
	sig, err := signPersonal(r.AuthHash(), key)
	r.CallerSignature = sig
	return err
}

func (r *RegisterRequest) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if !muon.VerifyGateway(r.AuthHash(), r.CallerSignature, r.Caller) {
		return ErrInvalidCallerSignature
	}
	return nil
}

// LocalClaimRequest pays out the balance accrued on this node. ClaimedBalance
// is the balance already claimed when the request was signed, a request is
// stale once another claim went through.
type LocalClaimRequest struct {
	Caller          types.Address `json:"caller"`
	Token           types.Address `json:"token"`
	Amount          *num.Uint     `json:"amount"`
	To              types.Address `json:"to"`
	ClaimedBalance  *num.Uint     `json:"claimedBalance"`
	CallerSignature hexutil.Bytes `json:"callerSignature"`
}

func (r *LocalClaimRequest) AuthHash() common.Hash {
	return vgcrypto.NewPacked().
		Raw([]byte("local-claim")).
		Address(r.Token).
		Uint256(r.Amount).
		Address(r.To).
		Uint256(r.ClaimedBalance).
		Keccak256()
}

func (r *LocalClaimRequest) Sign(key *ecdsa.PrivateKey) error {
	sig, err := signPersonal(r.AuthHash(), key)
	r.CallerSignature = sig
	return err
}

func (r *LocalClaimRequest) validate() error {
	if r.Amount == nil || r.ClaimedBalance == nil {
		return fmt.Errorf("%w: amount and claimed balance are required", ErrInvalidRequest)
	}
	if !muon.VerifyGateway(r.AuthHash(), r.CallerSignature, r.Caller) {
		return ErrInvalidCallerSignature
	}
	return nil
}

// PrizeClaimRequest pays out a prize won in the lottery or on the leaderboard
// of a pair rewarder. Amount is the whole balance of the token, the request is
// stale once the balance changed.
type PrizeClaimRequest struct {
	Caller          types.Address `json:"caller"`
	Ledger          types.Address `json:"ledger"`
	Token           types.Address `json:"token"`
	Amount          *num.Uint     `json:"amount"`
	To              types.Address `json:"to"`
	CallerSignature hexutil.Bytes `json:"callerSignature"`
}

func (r *PrizeClaimRequest) AuthHash() common.Hash {
	return vgcrypto.NewPacked().
		Raw([]byte("claim-prize")).
		Address(r.Ledger).
		Address(r.Token).
		Uint256(r.Amount).
		Address(r.To).
		Keccak256()
}

func (r *PrizeClaimRequest) Sign(key *ecdsa.PrivateKey) error {
	sig, err := signPersonal(r.AuthHash(), key)
	r.CallerSignature = sig
	return err
}

func (r *PrizeClaimRequest) validate() error {
	if r.Amount == nil {
		return fmt.Errorf("%w: amount is required", ErrInvalidRequest)
	}
	if !muon.VerifyGateway(r.AuthHash(), r.CallerSignature, r.Caller) {
		return ErrInvalidCallerSignature
	}
	return nil
}

func (s *Server) SubmitRegister(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := RegisterRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	s.submit(w, r, "register", func(ctx context.Context, e *processor.Engines) error {
		if req.Parent == (types.Code{}) {
			_, err := e.Registry.RegisterUnderRoot(ctx, req.Caller, req.Name)
			return err
		}
		_, err := e.Registry.Register(ctx, req.Caller, req.Name, req.Parent)
		return err
	})
}

func (s *Server) SubmitLocalClaim(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := LocalClaimRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	s.submit(w, r, "local_claim", func(ctx context.Context, e *processor.Engines) error {
		if claimed := e.Accountant.ClaimedBalance(req.Token, req.Caller); !claimed.EQ(req.ClaimedBalance) {
			return fmt.Errorf("%w: %s already claimed", ErrStaleRequest, claimed)
		}
		return e.Accountant.Claim(ctx, req.Caller, req.Token, req.Amount, req.To)
	})
}

func (s *Server) SubmitPrizeClaim(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := PrizeClaimRequest{}
	if err := unmarshalBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}
	s.submit(w, r, "claim_prize", func(ctx context.Context, e *processor.Engines) error {
		ledger, err := prizeLedger(e, req.Ledger)
		if err != nil {
			return err
		}
		if balance := ledger.Balance(req.Caller, req.Token); !balance.EQ(req.Amount) {
			return fmt.Errorf("%w: balance is %s", ErrStaleRequest, balance)
		}
		return ledger.ClaimToken(ctx, req.Caller, req.Token, req.To)
	})
}

func prizeLedger(e *processor.Engines, addr types.Address) (*prizes.Ledger, error) {
	if addr == e.Prizes.Self() {
		return e.Prizes, nil
	}
	rewarder, ok := e.Factory.Rewarder(addr)
	if !ok {
		return nil, pairrewarder.ErrUnknownRewarder(addr)
	}
	return rewarder.Prizes(), nil
}
