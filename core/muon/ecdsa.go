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
	"math/big"

	"code.dibs.finance/dibs/core/types"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// VerifyGateway tells if sig is a signature by gateway of the ethereum
// signed message of msgHash. The recovery id can be 0/1 or 27/28, high s
// values are rejected.
func VerifyGateway(msgHash common.Hash, sig []byte, gateway types.Address) bool {
	if len(sig) != crypto.SignatureLength || gateway == types.ZeroAddress {
		return false
	}
	cpy := append([]byte(nil), sig...)
	if cpy[crypto.RecoveryIDOffset] >= 27 {
		cpy[crypto.RecoveryIDOffset] -= 27
	}
	r := new(big.Int).SetBytes(cpy[:32])
	s := new(big.Int).SetBytes(cpy[32:64])
	if !crypto.ValidateSignatureValues(cpy[crypto.RecoveryIDOffset], r, s, true) {
		return false
	}

	pub, err := crypto.SigToPub(accounts.TextHash(msgHash[:]), cpy)
	if err != nil {
		return false
	}
	return crypto.PubkeyToAddress(*pub) == gateway
}

// ECDSAVerifier verifies the signatures of the gateway.
type ECDSAVerifier struct{}

func (ECDSAVerifier) VerifyGatewaySignature(msgHash common.Hash, sig []byte, gateway types.Address) bool {
	return VerifyGateway(msgHash, sig, gateway)
}
