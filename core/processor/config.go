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

package processor

import (
	"code.dibs.finance/dibs/config/encoding"
	"code.dibs.finance/dibs/logging"
)

const namedLogger = "processor"

type Config struct {
	Level       encoding.LogLevel `long:"log-level"`
	GenesisFile string            `long:"genesis-file" description:"path to the genesis file used on the first start"`
	Persist     encoding.Bool     `long:"persist" description:"save a checkpoint after every accepted call"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:       encoding.LogLevel{Level: logging.InfoLevel},
		GenesisFile: "genesis.json",
		Persist:     true,
	}
}
