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

package logging

// Config contains the configurable items for this package
type Config struct {
	Environment string     `long:"env" choice:"dev" choice:"prod" description:"the logging environment"`
	Level       string     `long:"level" description:"overrides the default level of the environment"`
	File        FileConfig `group:"File" namespace:"file"`
}

// FileConfig describes the optional rotating log file.
type FileConfig struct {
	Enabled    bool   `long:"enabled"`
	Path       string `long:"path"`
	MaxSizeMB  int    `long:"max-size-mb"`
	MaxBackups int    `long:"max-backups"`
	MaxAgeDays int    `long:"max-age-days"`
	Compress   bool   `long:"compress"`
}

// NewDefaultConfig creates an instance of the package-specific configuration, given a
// pointer to a logger instance to be used for logging within the package.
func NewDefaultConfig() Config {
	return Config{
		Environment: "dev",
		File: FileConfig{
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
