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
	"crypto/ecdsa"
	"fmt"

	"code.dibs.finance/dibs/core/muon"
	"code.dibs.finance/dibs/core/types"
	vgcrypto "code.dibs.finance/dibs/libs/crypto"
	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ClaimRequest pays out the caller. The caller signs the request so nobody
// else can choose where the tokens go.
type ClaimRequest struct {
	Caller              types.Address    `json:"caller"`
	Token               types.Address    `json:"token"`
	Amount              *num.Uint        `json:"amount"`
	To                  types.Address    `json:"to"`
	AccumulativeBalance *num.Uint        `json:"accumulativeBalance"`
	Attestation         muon.Attestation `json:"attestation"`
	CallerSignature     hexutil.Bytes    `json:"callerSignature"`
}

// AuthHash binds the caller signature to the attested request.
func (r *ClaimRequest) AuthHash() common.Hash {
	return vgcrypto.NewPacked().
		Raw([]byte("claim")).
		Bytes32(r.Attestation.ReqID).
		Address(r.Token).
		Uint256(r.Amount).
		Address(r.To).
		Keccak256()
}

func (r *ClaimRequest) Sign(key *ecdsa.PrivateKey) error {
	sig, err := signPersonal(r.AuthHash(), key)
	r.CallerSignature = sig
	return err
}

func (r *ClaimRequest) validate() error {
	if r.Amount == nil || r.AccumulativeBalance == nil {
		return fmt.Errorf("%w: amount and accumulative balance are required", ErrInvalidRequest)
	}
	if !muon.VerifyGateway(r.AuthHash(), r.CallerSignature, r.Caller) {
		return ErrInvalidCallerSignature
	}
	return nil
}

// ClaimExcessRequest pays out the platform balance, the caller holds the
// platform role.
type ClaimExcessRequest struct {
	Caller             types.Address    `json:"caller"`
	Token              types.Address    `json:"token"`
	To                 types.Address    `json:"to"`
	AccPlatformBalance *num.Uint        `json:"accPlatformBalance"`
	Amount             *num.Uint        `json:"amount"`
	Attestation        muon.Attestation `json:"attestation"`
	CallerSignature    hexutil.Bytes    `json:"callerSignature"`
}

func (r *ClaimExcessRequest) AuthHash() common.Hash {
	return vgcrypto.NewPacked().
		Raw([]byte("claim-excess")).
		Bytes32(r.Attestation.ReqID).
		Address(r.Token).
		Uint256(r.Amount).
		Address(r.To).
		Keccak256()
}

func (r *ClaimExcessRequest) Sign(key *ecdsa.PrivateKey) error {
	sig, err := signPersonal(r.AuthHash(), key)
	r.CallerSignature = sig
	return err
}

func (r *ClaimExcessRequest) validate() error {
	if r.Amount == nil || r.AccPlatformBalance == nil {
		return fmt.Errorf("%w: amount and platform balance are required", ErrInvalidRequest)
	}
	if !muon.VerifyGateway(r.AuthHash(), r.CallerSignature, r.Caller) {
		return ErrInvalidCallerSignature
	}
	return nil
}

type RoundWinnersRequest struct {
	Round       uint32           `json:"round"`
	Winners     []types.Address  `json:"winners"`
	Attestation muon.Attestation `json:"attestation"`
}

type TopReferrersRequest struct {
	Day         uint64           `json:"day"`
	Referrers   []types.Address  `json:"referrers"`
	Attestation muon.Attestation `json:"attestation"`
}

type PairTopReferrersRequest struct {
	Rewarder    types.Address    `json:"rewarder"`
	Day         uint64           `json:"day"`
	Referrers   []types.Address  `json:"referrers"`
	Attestation muon.Attestation `json:"attestation"`
}

// SubmitResponse is returned for every accepted submission.
type SubmitResponse struct {
	Success    bool        `json:"success"`
	Checkpoint common.Hash `json:"checkpoint"`
}

func signPersonal(hash common.Hash, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(hash[:]), key)
	if err != nil {
		return nil, err
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}
