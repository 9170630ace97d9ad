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

package close_test

import (
	"errors"
	"testing"

	vgclose "code.dibs.finance/dibs/libs/close"
	"code.dibs.finance/dibs/logging"

	"github.com/stretchr/testify/assert"
)

func TestCloseAll(t *testing.T) {
	var order []string
	c := vgclose.NewCloser(logging.NewTestLogger())
	c.Add("storage", func() error {
		order = append(order, "storage")
		return nil
	})
	c.Add("api", func() error {
		order = append(order, "api")
		return errors.New("boom")
	})
	c.Add("metrics", func() error {
		order = append(order, "metrics")
		return nil
	})

	c.CloseAll()
	assert.Equal(t, []string{"metrics", "api", "storage"}, order)

	// functions are only called once
	c.CloseAll()
	assert.Len(t, order, 3)
}
