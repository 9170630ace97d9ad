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

	"code.dibs.finance/dibs/libs/num"
)

// Percentages splits the reward of a trade, every value is expressed in
// parts per million.
type Percentages struct {
	Referee     uint32 `json:"referee"`
	Referrer    uint32 `json:"referrer"`
	Grandparent uint32 `json:"grandparent"`
	Platform    uint32 `json:"platform"`
}

func DefaultPercentages() Percentages {
	return Percentages{
		Referee:     0,
		Referrer:    700000,
		Grandparent: 250000,
		Platform:    50000,
	}
}

func (p Percentages) Sum() uint64 {
	return uint64(p.Referee) + uint64(p.Referrer) + uint64(p.Grandparent) + uint64(p.Platform)
}

func (p Percentages) Validate() error {
	if p.Sum() > num.PPM {
		return fmt.Errorf("%w: sum is %d, maximum is %d", ErrInvalidPercentages, p.Sum(), num.PPM)
	}
	return nil
}
