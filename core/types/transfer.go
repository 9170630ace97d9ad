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

import "code.dibs.finance/dibs/libs/num"

// Transfer is a movement of Amount of Token from From to To.
type Transfer struct {
	Token  Address
	From   Address
	To     Address
	Amount *num.Uint
}

// TokenBalance is the amount of a token held or owed.
type TokenBalance struct {
	Token  Address   `json:"token"`
	Amount *num.Uint `json:"amount"`
}

// Prize is an amount of a token won by Winner.
type Prize struct {
	Winner Address
	Token  Address
	Amount *num.Uint
}
