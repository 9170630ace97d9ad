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

// Package muon verifies the results attested by the oracle network and
// relays them to the engines.
//
// Every result carries two signatures: a Schnorr signature of the signing
// group and an ECDSA signature of the gateway. Both must be valid, and each
// request is accepted only once.
package muon

import (
	"context"
	"fmt"

	"code.dibs.finance/dibs/core/events"
	"code.dibs.finance/dibs/core/types"
	vgcrypto "code.dibs.finance/dibs/libs/crypto"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"

	"github.com/ethereum/go-ethereum/common"
)

const namedLogger = "muon"

var (
	ErrRequestAlreadyConsumed = func(reqID common.Hash) error {
		return fmt.Errorf("%w: %s", types.ErrRequestAlreadyConsumed, reqID.Hex())
	}

	ErrInvalidGroupSignature = func(reqID common.Hash) error {
		return fmt.Errorf("%w: request %s", types.ErrInvalidGroupSignature, reqID.Hex())
	}

	ErrInvalidGatewaySignature = func(reqID common.Hash) error {
		return fmt.Errorf("%w: request %s", types.ErrInvalidGatewaySignature, reqID.Hex())
	}
)

type Gateway struct {
	log    *logging.Logger
	broker Broker
	roles  Roles

	group   GroupVerifier
	gateway GatewayVerifier

	appID     *num.Uint
	publicKey PublicKey
	gwAddress types.Address

	consumed map[common.Hash]struct{}
}

func NewGateway(
	log *logging.Logger,
	broker Broker,
	roles Roles,
	group GroupVerifier,
	gateway GatewayVerifier,
	appID *num.Uint,
	publicKey PublicKey,
	gwAddress types.Address,
) *Gateway {
	return &Gateway{
		log:       log.Named(namedLogger),
		broker:    broker,
		roles:     roles,
		group:     group,
		gateway:   gateway,
		appID:     appID.Clone(),
		publicKey: publicKey,
		gwAddress: gwAddress,
		consumed:  map[common.Hash]struct{}{},
	}
}

// RequestHash returns keccak256(appId ‖ reqId ‖ signedData), the hash signed
// by the group.
func RequestHash(appID *num.Uint, reqID common.Hash, signedData []byte) common.Hash {
	return vgcrypto.NewPacked().
		Uint256(appID).
		Bytes32(reqID).
		Raw(signedData).
		Keccak256()
}

func (g *Gateway) MessageHash(reqID common.Hash, signedData []byte) common.Hash {
	return RequestHash(g.appID, reqID, signedData)
}

// Verify checks both signatures of a request without consuming it.
func (g *Gateway) Verify(signedData []byte, reqID common.Hash, sig SchnorrSign, gwSig []byte) error {
	if g.IsConsumed(reqID) {
		return ErrRequestAlreadyConsumed(reqID)
	}
	hash := g.MessageHash(reqID, signedData)

	valid := g.group.VerifyGroupSignature(hash, sig, g.publicKey)
	metrics.SignatureVerificationInc("group", valid)
	if !valid {
		g.log.Debug("invalid group signature",
			logging.String("request", reqID.Hex()),
			logging.Address("nonce", sig.Nonce),
		)
		return ErrInvalidGroupSignature(reqID)
	}

	valid = g.gateway.VerifyGatewaySignature(hash, gwSig, g.gwAddress)
	metrics.SignatureVerificationInc("gateway", valid)
	if !valid {
		g.log.Debug("invalid gateway signature", logging.String("request", reqID.Hex()))
		return ErrInvalidGatewaySignature(reqID)
	}
	return nil
}

// Consume marks a request as processed.
func (g *Gateway) Consume(ctx context.Context, reqID common.Hash) {
	g.consumed[reqID] = struct{}{}
	g.broker.Send(events.NewRequestConsumed(ctx, reqID))
}

// VerifyTSSAndGW verifies and consumes a request.
func (g *Gateway) VerifyTSSAndGW(ctx context.Context, signedData []byte, reqID common.Hash, sig SchnorrSign, gwSig []byte) error {
	if err := g.Verify(signedData, reqID, sig, gwSig); err != nil {
		return err
	}
	g.Consume(ctx, reqID)
	return nil
}

func (g *Gateway) IsConsumed(reqID common.Hash) bool {
	_, ok := g.consumed[reqID]
	return ok
}

func (g *Gateway) AppID() *num.Uint {
	return g.appID.Clone()
}

func (g *Gateway) PublicKey() PublicKey {
	if g.publicKey.X == nil {
		return PublicKey{}
	}
	return PublicKey{X: g.publicKey.X.Clone(), Parity: g.publicKey.Parity}
}

func (g *Gateway) GatewayAddress() types.Address {
	return g.gwAddress
}

func (g *Gateway) SetPublicKey(ctx context.Context, caller types.Address, key PublicKey) error {
	if err := g.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	if key.X == nil || !key.X.LT(halfN) || key.Parity > 1 {
		return fmt.Errorf("%w: public key", types.ErrInvalidInput)
	}
	g.publicKey = PublicKey{X: key.X.Clone(), Parity: key.Parity}
	g.settingUpdated(ctx, "public-key", fmt.Sprintf("%s/%d", key.X.Hex(), key.Parity))
	return nil
}

func (g *Gateway) SetGateway(ctx context.Context, caller, gateway types.Address) error {
	if err := g.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	g.gwAddress = gateway
	g.settingUpdated(ctx, "gateway", gateway.Hex())
	return nil
}

func (g *Gateway) SetAppID(ctx context.Context, caller types.Address, appID *num.Uint) error {
	if err := g.roles.Require(types.RoleSetter, caller); err != nil {
		return err
	}
	g.appID = appID.Clone()
	g.settingUpdated(ctx, "app-id", appID.String())
	return nil
}

func (g *Gateway) settingUpdated(ctx context.Context, setting, value string) {
	g.log.Info("setting updated", logging.String("setting", setting), logging.String("value", value))
	g.broker.Send(events.NewSettingUpdated(ctx, namedLogger, setting, value))
}
