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

package crypto

import (
	"encoding/binary"

	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Packed builds the non-standard packed encoding of solidity
// (abi.encodePacked): static values use their natural width without
// padding, except for array elements which are padded to 32 bytes.
type Packed struct {
	buf []byte
}

func NewPacked() *Packed {
	return &Packed{buf: make([]byte, 0, 128)}
}

func (p *Packed) Uint256(v *num.Uint) *Packed {
	word := v.Bytes()
	p.buf = append(p.buf, word[:]...)
	return p
}

func (p *Packed) Uint64As256(v uint64) *Packed {
	return p.Uint256(num.NewUint(v))
}

func (p *Packed) Uint32(v uint32) *Packed {
	p.buf = binary.BigEndian.AppendUint32(p.buf, v)
	return p
}

func (p *Packed) Uint8(v uint8) *Packed {
	p.buf = append(p.buf, v)
	return p
}

func (p *Packed) Address(a common.Address) *Packed {
	p.buf = append(p.buf, a.Bytes()...)
	return p
}

func (p *Packed) Bytes32(h common.Hash) *Packed {
	p.buf = append(p.buf, h.Bytes()...)
	return p
}

// Raw appends dynamic bytes as is.
func (p *Packed) Raw(b []byte) *Packed {
	p.buf = append(p.buf, b...)
	return p
}

// AddressArray appends every address left padded to 32 bytes.
func (p *Packed) AddressArray(list []common.Address) *Packed {
	for _, a := range list {
		p.buf = append(p.buf, common.LeftPadBytes(a.Bytes(), 32)...)
	}
	return p
}

func (p *Packed) Bytes() []byte {
	return append([]byte(nil), p.buf...)
}

func (p *Packed) Keccak256() common.Hash {
	return crypto.Keccak256Hash(p.buf)
}
