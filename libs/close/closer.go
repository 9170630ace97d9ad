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

package close

import (
	"code.dibs.finance/dibs/logging"
)

// Closer releases the components of a process in the reverse order of
// their registration.
type Closer struct {
	log *logging.Logger
	fns []namedClose
}

type namedClose struct {
	name string
	fn   func() error
}

func NewCloser(log *logging.Logger) *Closer {
	return &Closer{log: log}
}

func (c *Closer) Add(name string, fn func() error) {
	c.fns = append(c.fns, namedClose{name: name, fn: fn})
}

// CloseAll calls every close function, failures are logged and do not stop
// the remaining ones.
func (c *Closer) CloseAll() {
	for i := len(c.fns) - 1; i >= 0; i-- {
		if err := c.fns[i].fn(); err != nil {
			c.log.Error("couldn't close component",
				logging.String("component", c.fns[i].name),
				logging.Error(err),
			)
		}
	}
	c.fns = nil
}
