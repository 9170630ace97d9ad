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

// PPM is the scale of every percentage handled by the protocol.
const PPM uint64 = 1_000_000

var ppmUint = NewUint(PPM)

// SharePPM returns amount * ppm / 1e6, rounded down.
func SharePPM(amount *Uint, ppm uint64) *Uint {
	return UintZero().MulDiv(amount, NewUint(ppm), ppmUint)
}
