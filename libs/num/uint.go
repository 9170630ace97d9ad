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

package num

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

var ErrInvalidUint = errors.New("invalid unsigned 256 bits integer")

// Uint is a 256 bits unsigned integer, the width of an on-chain token amount.
// All arithmetic wraps like the EVM does, callers check for overflow where it
// matters with the *Overflow variants.
type Uint struct {
	u uint256.Int
}

// NewUint creates a new Uint with the value of the
// uint64 passed as a parameter.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// UintZero returns a new zero value.
func UintZero() *Uint {
	return NewUint(0)
}

// Min returns the smallest of the 2 numbers
func Min(a, b *Uint) *Uint {
	if a.LT(b) {
		return a
	}
	return b
}

// Max returns the largest of the 2 numbers
func Max(a, b *Uint) *Uint {
	if a.GT(b) {
		return a
	}
	return b
}

// UintFromBig construct a new Uint with a big.Int
// returns true if overflow happened
func UintFromBig(b *big.Int) (*Uint, bool) {
	if b.Sign() < 0 {
		return NewUint(0), true
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return NewUint(0), true
	}
	return &Uint{*u}, false
}

// UintFromString creates a new Uint from a string
// interpreted using the given base.
// will return true if an error/overflow happened
func UintFromString(str string, base int) (*Uint, bool) {
	b, ok := big.NewInt(0).SetString(str, base)
	if !ok {
		return NewUint(0), true
	}
	return UintFromBig(b)
}

// MustUintFromString panics on invalid input, only meant for constants and tests.
func MustUintFromString(str string, base int) *Uint {
	u, overflow := UintFromString(str, base)
	if overflow {
		panic(fmt.Sprintf("invalid uint %q", str))
	}
	return u
}

// UintFromBytes reads a big endian encoded value of at most 32 bytes.
func UintFromBytes(b []byte) *Uint {
	u := &Uint{}
	u.u.SetBytes(b)
	return u
}

// Sum just removes the need to write num.NewUint(0).AddSum(x, y, z)
// so you can write num.Sum(x, y, z) instead, equivalent to x + y + z
func Sum(vals ...*Uint) *Uint {
	return NewUint(0).AddSum(vals...)
}

func (z *Uint) Set(oth *Uint) *Uint {
	z.u.Set(&oth.u)
	return z
}

func (z *Uint) SetUint64(val uint64) *Uint {
	z.u.SetUint64(val)
	return z
}

func (z Uint) Uint64() uint64 {
	return z.u.Uint64()
}

// IsUint64 tells if the value fits in an uint64.
func (z Uint) IsUint64() bool {
	return z.u.IsUint64()
}

func (z Uint) BigInt() *big.Int {
	return z.u.ToBig()
}

// Add sets z = x + y and returns z.
func (z *Uint) Add(x, y *Uint) *Uint {
	z.u.Add(&x.u, &y.u)
	return z
}

// AddSum adds multiple values at the same time to a given uint
// so x.AddSum(y, z) is equivalent to x + y + z
func (z *Uint) AddSum(vals ...*Uint) *Uint {
	for _, x := range vals {
		z.u.Add(&z.u, &x.u)
	}
	return z
}

// AddOverflow sets z = x + y, true is returned if an overflow occurred.
func (z *Uint) AddOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.AddOverflow(&x.u, &y.u)
	return z, overflow
}

// Sub sets z = x - y and returns z.
func (z *Uint) Sub(x, y *Uint) *Uint {
	z.u.Sub(&x.u, &y.u)
	return z
}

// SubOverflow sets z = x - y, true is returned if an underflow occurred.
func (z *Uint) SubOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.SubOverflow(&x.u, &y.u)
	return z, overflow
}

// Mul sets z = x * y and returns z.
func (z *Uint) Mul(x, y *Uint) *Uint {
	z.u.Mul(&x.u, &y.u)
	return z
}

// Div sets z = x / y and returns z. Division by zero gives zero.
func (z *Uint) Div(x, y *Uint) *Uint {
	z.u.Div(&x.u, &y.u)
	return z
}

// Mod sets z = x % y and returns z.
func (z *Uint) Mod(x, y *Uint) *Uint {
	z.u.Mod(&x.u, &y.u)
	return z
}

// MulMod sets z = x * y % m with a 512 bits intermediate result.
func (z *Uint) MulMod(x, y, m *Uint) *Uint {
	z.u.MulMod(&x.u, &y.u, &m.u)
	return z
}

// AddMod sets z = (x + y) % m without overflowing.
func (z *Uint) AddMod(x, y, m *Uint) *Uint {
	z.u.AddMod(&x.u, &y.u, &m.u)
	return z
}

// MulDiv computes x * y / d with a 512 bits intermediate result.
func (z *Uint) MulDiv(x, y, d *Uint) *Uint {
	z.u.MulDivOverflow(&x.u, &y.u, &d.u)
	return z
}

func (z Uint) LT(oth *Uint) bool {
	return z.u.Lt(&oth.u)
}

func (z Uint) LTE(oth *Uint) bool {
	return !z.u.Gt(&oth.u)
}

func (z Uint) EQ(oth *Uint) bool {
	return z.u.Eq(&oth.u)
}

func (z Uint) EQUint64(oth uint64) bool {
	return z.u.Eq(uint256.NewInt(oth))
}

func (z Uint) NEQ(oth *Uint) bool {
	return !z.u.Eq(&oth.u)
}

func (z Uint) GT(oth *Uint) bool {
	return z.u.Gt(&oth.u)
}

func (z Uint) GTUint64(oth uint64) bool {
	return z.u.GtUint64(oth)
}

func (z Uint) GTE(oth *Uint) bool {
	return !z.u.Lt(&oth.u)
}

func (z Uint) IsZero() bool {
	return z.u.IsZero()
}

// Copy sets z to the value of x.
func (z *Uint) Copy(x *Uint) *Uint {
	z.u = x.u
	return z
}

// Clone returns a copy of the value.
func (z Uint) Clone() *Uint {
	return &Uint{z.u}
}

func (z Uint) Hex() string {
	return z.u.Hex()
}

// String returns the base 10 representation.
func (z Uint) String() string {
	return z.u.Dec()
}

func (z Uint) Format(s fmt.State, ch rune) {
	z.u.Format(s, ch)
}

// Bytes returns the value as a big endian encoded 32 bytes array, the way
// the EVM lays out an uint256 word.
func (z Uint) Bytes() [32]byte {
	return z.u.Bytes32()
}

// MarshalJSON encodes the value as a base 10 string, amounts do not fit in
// a JSON number.
func (z Uint) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.u.Dec())
}

func (z *Uint) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUint, err)
	}
	u, overflow := UintFromString(str, 10)
	if overflow {
		return fmt.Errorf("%w: %q", ErrInvalidUint, str)
	}
	z.u = u.u
	return nil
}
