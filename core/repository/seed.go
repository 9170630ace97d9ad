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

package repository

import (
	"context"
	"crypto/rand"
	"io"

	"code.dibs.finance/dibs/libs/num"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// RandomSeeds draws the seeds from a source of randomness, crypto/rand by
// default.
type RandomSeeds struct {
	source io.Reader
}

func NewRandomSeeds(source io.Reader) *RandomSeeds {
	if source == nil {
		source = rand.Reader
	}
	return &RandomSeeds{source: source}
}

func (r *RandomSeeds) GenerateSeed(_ context.Context, _ common.Hash) (*num.Uint, error) {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(r.source, buf); err != nil {
		return nil, errors.Wrap(err, "could not read the random seed")
	}
	return num.UintFromBytes(buf), nil
}
