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

package rest

import (
	"time"

	"code.dibs.finance/dibs/config/encoding"
	vghttp "code.dibs.finance/dibs/libs/http"
	"code.dibs.finance/dibs/logging"
)

const namedLogger = "api.rest"

// Config represents the configuration of the REST API.
type Config struct {
	Level     encoding.LogLevel      `long:"log-level"`
	Enabled   encoding.Bool          `long:"enabled" description:"start the REST API"`
	IP        string                 `long:"ip" description:"bind to address <ip>"`
	Port      int                    `long:"port" env:"DIBS_API_PORT" description:"listen for connection on port <port>"`
	Timeout   encoding.Duration      `long:"timeout" description:"read and write timeout of a request"`
	CORS      vghttp.CORSConfig      `group:"CORS" namespace:"cors"`
	RateLimit vghttp.RateLimitConfig `group:"RateLimit" namespace:"ratelimit"`
}

func NewDefaultConfig() Config {
	return Config{
		Level:   encoding.LogLevel{Level: logging.InfoLevel},
		Enabled: true,
		IP:      "0.0.0.0",
		Port:    3003,
		Timeout: encoding.Duration{Duration: 5 * time.Second},
		CORS: vghttp.CORSConfig{
			AllowedOrigins: []string{"*"},
			MaxAge:         7200,
		},
		RateLimit: vghttp.RateLimitConfig{
			CoolDown:   encoding.Duration{Duration: time.Second},
			AllowList:  []string{"127.0.0.0/8"},
			MaxClients: 10000,
		},
	}
}
