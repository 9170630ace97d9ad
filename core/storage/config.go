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

package storage

import (
	"code.dibs.finance/dibs/config/encoding"
	"code.dibs.finance/dibs/logging"
)

const (
	namedLogger = "storage"
	goLevelDB   = "GOLevelDB"
	memDB       = "memory"
)

type Config struct {
	Level      encoding.LogLevel `choice:"debug" choice:"info" choice:"warning" choice:"error" description:"Logging level (default: info)" long:"log-level"`
	Storage    string            `choice:"GOLevelDB" choice:"memory" description:"Storage type to use" long:"storage"`
	DBPath     string            `description:"Path to the database directory" long:"db-path"`
	KeepRecent int               `description:"Number of historic checkpoints to keep" long:"keep-recent"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:      encoding.LogLevel{Level: logging.InfoLevel},
		Storage:    goLevelDB,
		DBPath:     "state",
		KeepRecent: 10,
	}
}

func NewTestConfig() Config {
	cfg := NewDefaultConfig()
	cfg.Storage = memDB
	cfg.DBPath = ""
	return cfg
}
