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

package http

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORSConfig lists the origins allowed to call the API, "*" or an empty list
// allows any origin.
type CORSConfig struct {
	AllowedOrigins []string `long:"allowed-origins" description:"allowed origins for CORS"`
	MaxAge         int      `long:"max-age" description:"max age (in seconds) of the preflight cache"`
}

func NewCORS(config CORSConfig) *cors.Cors {
	return cors.New(cors.Options{
		AllowOriginFunc:  originAllowed(config.AllowedOrigins),
		AllowedMethods:   []string{http.MethodHead, http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		MaxAge:           config.MaxAge,
		AllowCredentials: false,
	})
}

func originAllowed(allowed []string) func(origin string) bool {
	host := func(origin string) string {
		return strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	}
	return func(origin string) bool {
		if len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin || host(a) == host(origin) {
				return true
			}
		}
		return false
	}
}

// AllowsOrigin tells if a page served from origin may call the API.
func (c CORSConfig) AllowsOrigin(origin string) bool {
	return originAllowed(c.AllowedOrigins)(origin)
}
