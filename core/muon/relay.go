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
	"context"

	"code.dibs.finance/dibs/core/types"
	vgcrypto "code.dibs.finance/dibs/libs/crypto"
	"code.dibs.finance/dibs/libs/num"
	"code.dibs.finance/dibs/logging"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Verifier checks the signatures of an attested result.
type Verifier interface {
	Verify(signedData []byte, reqID common.Hash, sig SchnorrSign, gwSig []byte) error
	Consume(ctx context.Context, reqID common.Hash)
}

// Attestation holds the signatures of a result.
type Attestation struct {
	ReqID            common.Hash   `json:"reqId"`
	Signature        SchnorrSign   `json:"signature"`
	GatewaySignature hexutil.Bytes `json:"gatewaySignature"`
}

// Relay rebuilds the payload signed for every kind of result, verifies it
// and forwards the result to its engine with its own address as the caller.
// A request is consumed only once the engine accepted it.
type Relay struct {
	log      *logging.Logger
	self     types.Address
	platform types.Address
	verifier Verifier
	roles    Roles

	accountant  Accountant
	lottery     Lottery
	leaderboard Leaderboard
}

func NewRelay(
	log *logging.Logger,
	self, platform types.Address,
	verifier Verifier,
	roles Roles,
	accountant Accountant,
	lottery Lottery,
	leaderboard Leaderboard,
) *Relay {
	return &Relay{
		log:         log.Named(namedLogger).Named("relay"),
		self:        self,
		platform:    platform,
		verifier:    verifier,
		roles:       roles,
		accountant:  accountant,
		lottery:     lottery,
		leaderboard: leaderboard,
	}
}

func (r *Relay) Address() types.Address {
	return r.self
}

// ClaimSignData returns encodePacked(address user, address token, uint256 balance).
func ClaimSignData(user, token types.Address, balance *num.Uint) []byte {
	return vgcrypto.NewPacked().Address(user).Address(token).Uint256(balance).Bytes()
}

// RoundWinnersSignData returns encodePacked(uint32 round, address[] winners).
func RoundWinnersSignData(round uint32, winners []types.Address) []byte {
	return vgcrypto.NewPacked().Uint32(round).AddressArray(winners).Bytes()
}

// TopReferrersSignData returns encodePacked(uint256 day, address[] referrers).
func TopReferrersSignData(day uint64, referrers []types.Address) []byte {
	return vgcrypto.NewPacked().Uint64As256(day).AddressArray(referrers).Bytes()
}

// PairTopReferrersSignData returns encodePacked(address rewarder, uint256 day,
// address[] referrers).
func PairTopReferrersSignData(rewarder types.Address, day uint64, referrers []types.Address) []byte {
	return vgcrypto.NewPacked().Address(rewarder).Uint64As256(day).AddressArray(referrers).Bytes()
}

// Claim pays out the caller up to the balance attested by the network.
func (r *Relay) Claim(
	ctx context.Context,
	caller, token types.Address,
	amount *num.Uint,
	to types.Address,
	accumulativeBalance *num.Uint,
	att Attestation,
) error {
	return r.relay(ctx, "claim", ClaimSignData(caller, token, accumulativeBalance), att, func() error {
		return r.accountant.ClaimFor(ctx, r.self, caller, token, amount, to, accumulativeBalance)
	})
}

// ClaimExcessTokens pays out the platform balance attested by the network,
// the caller must hold the platform role.
func (r *Relay) ClaimExcessTokens(
	ctx context.Context,
	caller, token, to types.Address,
	accPlatformBalance, amount *num.Uint,
	att Attestation,
) error {
	if err := r.roles.Require(types.RolePlatform, caller); err != nil {
		return err
	}
	return r.relay(ctx, "claim-excess", ClaimSignData(r.platform, token, accPlatformBalance), att, func() error {
		return r.accountant.ClaimExcessTokens(ctx, r.self, token, to, accPlatformBalance, amount)
	})
}

func (r *Relay) SetRoundWinners(ctx context.Context, round uint32, winners []types.Address, att Attestation) error {
	return r.relay(ctx, "round-winners", RoundWinnersSignData(round, winners), att, func() error {
		return r.lottery.SetRoundWinners(ctx, r.self, uint64(round), winners)
	})
}

func (r *Relay) SetTopReferrers(ctx context.Context, day uint64, referrers []types.Address, att Attestation) error {
	return r.relay(ctx, "top-referrers", TopReferrersSignData(day, referrers), att, func() error {
		return r.leaderboard.SetTopReferrers(ctx, r.self, day, referrers)
	})
}

// SetPairTopReferrers ranks the referrers of a pair rewarder, the signed
// payload is bound to the rewarder address.
func (r *Relay) SetPairTopReferrers(
	ctx context.Context,
	rewarder types.Address,
	board Leaderboard,
	day uint64,
	referrers []types.Address,
	att Attestation,
) error {
	return r.relay(ctx, "pair-top-referrers", PairTopReferrersSignData(rewarder, day, referrers), att, func() error {
		return board.SetTopReferrers(ctx, r.self, day, referrers)
	})
}

func (r *Relay) relay(ctx context.Context, kind string, signData []byte, att Attestation, apply func() error) error {
	if err := r.verifier.Verify(signData, att.ReqID, att.Signature, att.GatewaySignature); err != nil {
		r.log.Debug("attestation rejected",
			logging.String("kind", kind),
			logging.String("request", att.ReqID.Hex()),
			logging.Error(err),
		)
		return err
	}
	if err := apply(); err != nil {
		return err
	}
	r.verifier.Consume(ctx, att.ReqID)
	r.log.Debug("attestation applied",
		logging.String("kind", kind),
		logging.String("request", att.ReqID.Hex()),
	)
	return nil
}
