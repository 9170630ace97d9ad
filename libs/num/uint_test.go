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

package num_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"code.dibs.finance/dibs/libs/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint256Constructors(t *testing.T) {
	var expected uint64 = 42

	t.Run("test from uint64", func(t *testing.T) {
		n := num.NewUint(expected)
		assert.Equal(t, expected, n.Uint64())
	})

	t.Run("test from string", func(t *testing.T) {
		n, overflow := num.UintFromString("42", 10)
		assert.False(t, overflow)
		assert.Equal(t, expected, n.Uint64())
	})

	t.Run("test from big", func(t *testing.T) {
		n, overflow := num.UintFromBig(big.NewInt(int64(expected)))
		assert.False(t, overflow)
		assert.Equal(t, expected, n.Uint64())
	})

	t.Run("negative big overflows", func(t *testing.T) {
		_, overflow := num.UintFromBig(big.NewInt(-1))
		assert.True(t, overflow)
	})

	t.Run("too large string overflows", func(t *testing.T) {
		huge := new(big.Int).Lsh(big.NewInt(1), 256)
		_, overflow := num.UintFromString(huge.String(), 10)
		assert.True(t, overflow)
	})
}

func TestUint256Clone(t *testing.T) {
	first := num.NewUint(42)
	second := first.Clone()

	second.Add(second, num.NewUint(42))

	assert.Equal(t, uint64(42), first.Uint64())
	assert.Equal(t, uint64(84), second.Uint64())
}

func TestSharePPM(t *testing.T) {
	fees := num.NewUint(1000)

	assert.Equal(t, "100", num.SharePPM(fees, 100000).String())
	assert.Equal(t, "0", num.SharePPM(num.NewUint(3), 250000).String())
	assert.Equal(t, "1000", num.SharePPM(fees, num.PPM).String())

	// the intermediate product does not wrap
	max := num.MustUintFromString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	assert.Equal(t, max.String(), num.SharePPM(max, num.PPM).String())
}

func TestUintJSON(t *testing.T) {
	v := num.MustUintFromString("123456789012345678901234567890", 10)

	buf, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `"123456789012345678901234567890"`, string(buf))

	decoded := num.UintZero()
	require.NoError(t, json.Unmarshal(buf, decoded))
	assert.True(t, v.EQ(decoded))

	require.ErrorIs(t, json.Unmarshal([]byte(`"-1"`), decoded), num.ErrInvalidUint)
}

func TestFraction(t *testing.T) {
	assert.Equal(t, "0.25", num.Fraction(250000).String())
	assert.Equal(t, "0.7", num.Fraction(700000).String())
}

func TestModularArithmetic(t *testing.T) {
	m := num.NewUint(7)
	assert.Equal(t, "6", num.UintZero().MulMod(num.NewUint(4), num.NewUint(5), m).String())
	assert.Equal(t, "2", num.UintZero().AddMod(num.NewUint(4), num.NewUint(5), m).String())

	// the sum and the product are computed on more than 256 bits
	max := num.MustUintFromString("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", 16)
	n := num.MustUintFromString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	assert.Equal(t, "0", num.UintZero().MulMod(n, max, n).String())
	assert.Equal(t, num.UintZero().Sub(max, n).String(), num.UintZero().AddMod(max, n, n).String())
}
