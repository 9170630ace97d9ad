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

// Package muontest signs results the way the oracle network does, for the
// tests of the packages relaying them.
package muontest

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"code.dibs.finance/dibs/core/muon"
	"code.dibs.finance/dibs/core/types"
	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// GroupSigner produces the Schnorr signatures of the signing group.
type GroupSigner struct {
	Key    *ecdsa.PrivateKey
	Public muon.PublicKey
}

func NewGroupSigner(t *testing.T) *GroupSigner {
	t.Helper()
	n := crypto.S256().Params().N
	half := new(big.Int).Add(new(big.Int).Rsh(n, 1), big.NewInt(1))
	for {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		if key.PublicKey.X.Cmp(half) >= 0 {
			continue
		}
		x, overflow := num.UintFromBig(key.PublicKey.X)
		require.False(t, overflow)
		return &GroupSigner{
			Key:    key,
			Public: muon.PublicKey{X: x, Parity: uint8(key.PublicKey.Y.Bit(0))},
		}
	}
}

// Sign picks a nonce k and returns s = k - e·x with R = k·G.
func (g *GroupSigner) Sign(t *testing.T, msgHash common.Hash) muon.SchnorrSign {
	t.Helper()
	nonceKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	nonce := crypto.PubkeyToAddress(nonceKey.PublicKey)

	n := crypto.S256().Params().N
	e := muon.Challenge(g.Public, msgHash, nonce).BigInt()
	s := new(big.Int).Mul(e, g.Key.D)
	s.Mod(s, n)
	s.Sub(nonceKey.D, s)
	s.Mod(s, n)

	sig, overflow := num.UintFromBig(s)
	require.False(t, overflow)
	return muon.SchnorrSign{
		Signature: sig,
		Owner:     crypto.PubkeyToAddress(g.Key.PublicKey),
		Nonce:     nonce,
	}
}

// GatewaySigner produces the personal signatures of the gateway, it also
// stands for any account signing a request.
type GatewaySigner struct {
	Key     *ecdsa.PrivateKey
	Address types.Address
}

func NewGatewaySigner(t *testing.T) *GatewaySigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &GatewaySigner{Key: key, Address: crypto.PubkeyToAddress(key.PublicKey)}
}

func (g *GatewaySigner) Sign(t *testing.T, msgHash common.Hash) []byte {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash(msgHash[:]), g.Key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	return sig
}

// Network attests results for an application.
type Network struct {
	AppID   *num.Uint
	Group   *GroupSigner
	Gateway *GatewaySigner
}

func NewNetwork(t *testing.T, appID *num.Uint) *Network {
	t.Helper()
	return &Network{
		AppID:   appID.Clone(),
		Group:   NewGroupSigner(t),
		Gateway: NewGatewaySigner(t),
	}
}

func (n *Network) Attest(t *testing.T, reqID common.Hash, signData []byte) muon.Attestation {
	t.Helper()
	hash := muon.RequestHash(n.AppID, reqID, signData)
	return muon.Attestation{
		ReqID:            reqID,
		Signature:        n.Group.Sign(t, hash),
		GatewaySignature: n.Gateway.Sign(t, hash),
	}
}
