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

//lint:file-ignore SA5008 duplicated struct tags are ok for config

package config

import (
	"code.dibs.finance/dibs/api/rest"
	"code.dibs.finance/dibs/core/broker"
	"code.dibs.finance/dibs/core/processor"
	"code.dibs.finance/dibs/core/storage"
	"code.dibs.finance/dibs/logging"
	"code.dibs.finance/dibs/metrics"
)

const (
	configFileName = "config.toml"
	envFileName    = ".env"
)

// Config ties together all other application configuration types.
type Config struct {
	Logging   logging.Config   `group:"Logging" namespace:"logging"`
	Broker    broker.Config    `group:"Broker" namespace:"broker"`
	Storage   storage.Config   `group:"Storage" namespace:"storage"`
	Processor processor.Config `group:"Processor" namespace:"processor"`
	Metrics   metrics.Config   `group:"Metrics" namespace:"metrics"`
	API       rest.Config      `group:"API" namespace:"api"`
}

// NewDefaultConfig returns the default configuration of every package.
func NewDefaultConfig() Config {
	return Config{
		Logging:   logging.NewDefaultConfig(),
		Broker:    broker.NewDefaultConfig(),
		Storage:   storage.NewDefaultConfig(),
		Processor: processor.NewDefaultConfig(),
		Metrics:   metrics.NewDefaultConfig(),
		API:       rest.NewDefaultConfig(),
	}
}
