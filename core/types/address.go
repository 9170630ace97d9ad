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

package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Address identifies an account, a token, a pair or a deployed instance.
type Address = common.Address

// Code is a referral code, the keccak256 hash of its name.
type Code = common.Hash

var (
	ZeroAddress Address
	ZeroCode    Code
)

// RootCodeName is the name of the code owned by the platform itself.
const RootCodeName = "DIBS"

// CodeFromName derives the referral code of a name.
func CodeFromName(name string) Code {
	return crypto.Keccak256Hash([]byte(name))
}

// AddressFromHex parses a hexadecimal address, rejecting malformed input
// instead of silently returning the zero address.
func AddressFromHex(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return ZeroAddress, fmt.Errorf("%w: %q is not an address", ErrInvalidInput, s)
	}
	return common.HexToAddress(s), nil
}

// CodeFromHex parses a 32 bytes hexadecimal referral code.
func CodeFromHex(s string) (Code, error) {
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return ZeroCode, fmt.Errorf("%w: %q is not a referral code", ErrInvalidInput, s)
	}
	return common.BytesToHash(b), nil
}
