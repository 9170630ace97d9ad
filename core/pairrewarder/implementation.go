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

package pairrewarder

import (
	"code.dibs.finance/dibs/core/leaderboard"
)

// Implementation is a version of the rewarder logic. Upgrading an instance
// runs Migrate over its leaderboard state, a nil Migrate keeps it as is.
type Implementation struct {
	Version string
	Migrate func(leaderboard.State) (leaderboard.State, error)
}

// InitialImplementation is the first rewarder version.
var InitialImplementation = Implementation{Version: "v1"}

func (i Implementation) migrate(s leaderboard.State) (leaderboard.State, error) {
	if i.Migrate == nil {
		return s, nil
	}
	return i.Migrate(s)
}
