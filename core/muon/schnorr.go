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

package muon

import (
	"code.dibs.finance/dibs/core/types"
	vgcrypto "code.dibs.finance/dibs/libs/crypto"
	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// order of the secp256k1 group
	curveN = num.MustUintFromString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	// x coordinates of the group public keys are kept below half the order
	halfN = num.UintZero().Add(num.UintZero().Div(curveN, num.NewUint(2)), num.NewUint(1))
)

// PublicKey is the public key of the signing group, the parity is the
// parity of its y coordinate.
type PublicKey struct {
	X      *num.Uint `json:"x"`
	Parity uint8     `json:"parity"`
}

// SchnorrSign is the signature of the group, the nonce is the address of the
// commitment point.
type SchnorrSign struct {
	Signature *num.Uint     `json:"signature"`
	Owner     types.Address `json:"owner"`
	Nonce     types.Address `json:"nonce"`
}

// Challenge returns e = keccak256(x ‖ parity ‖ msgHash ‖ nonce).
func Challenge(key PublicKey, msgHash common.Hash, nonce types.Address) *num.Uint {
	e := vgcrypto.NewPacked().
		Uint256(key.X).
		Uint8(key.Parity).
		Bytes32(msgHash).
		Address(nonce).
		Keccak256()
	return num.UintFromBytes(e[:])
}

// VerifySchnorr accepts the signature iff address(s·G + e·P) is the nonce.
// The point is computed with the ecrecover identity: recovering from the
// hash -x·s and the signature (x, e·x) yields x⁻¹(e·x·P + x·s·G).
func VerifySchnorr(key PublicKey, signature *num.Uint, msgHash common.Hash, nonce types.Address) bool {
	if key.X == nil || signature == nil || key.Parity > 1 {
		return false
	}
	if !key.X.LT(halfN) || !signature.LT(curveN) {
		return false
	}
	if nonce == types.ZeroAddress || key.X.IsZero() || signature.IsZero() || msgHash == (common.Hash{}) {
		return false
	}

	e := Challenge(key, msgHash, nonce)
	xs := num.UintZero().MulMod(key.X, signature, curveN)
	hash := num.UintZero().Sub(curveN, xs).Bytes()
	r := key.X.Bytes()
	s := num.UintZero().MulMod(e, key.X, curveN).Bytes()

	sig := make([]byte, crypto.SignatureLength)
	copy(sig[:32], r[:])
	copy(sig[32:64], s[:])
	sig[crypto.RecoveryIDOffset] = key.Parity

	pub, err := crypto.SigToPub(hash[:], sig)
	if err != nil {
		return false
	}
	return crypto.PubkeyToAddress(*pub) == nonce
}

// SchnorrVerifier verifies the signatures of the signing group.
type SchnorrVerifier struct{}

func (SchnorrVerifier) VerifyGroupSignature(msgHash common.Hash, sig SchnorrSign, key PublicKey) bool {
	return VerifySchnorr(key, sig.Signature, msgHash, sig.Nonce)
}
