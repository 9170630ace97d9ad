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
	"encoding/json"
	"errors"
	"net/http"

	"code.dibs.finance/dibs/core/types"
)

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrNotFound               = errors.New("not found")
	ErrInvalidCallerSignature = errors.New("invalid caller signature")
	ErrRateLimited            = errors.New("rate limited")
	ErrStaleRequest           = errors.New("stale request")
)

type HTTPError struct {
	ErrorStr string `json:"error"`
}

func (e HTTPError) Error() string {
	return e.ErrorStr
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrZeroValue):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrInvalidCallerSignature),
		errors.Is(err, types.ErrInvalidGroupSignature),
		errors.Is(err, types.ErrInvalidGatewaySignature):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrMissingRole),
		errors.Is(err, types.ErrNotMuonInterface),
		errors.Is(err, types.ErrOnlyMuonInterface),
		errors.Is(err, types.ErrBlacklisted):
		return http.StatusForbidden
	case errors.Is(err, types.ErrRequestAlreadyConsumed),
		errors.Is(err, ErrStaleRequest):
		return http.StatusConflict
	case errors.Is(err, types.ErrTransferFailed):
		return http.StatusInternalServerError
	default:
		// every other rejection comes from the rules of an engine
		return http.StatusUnprocessableEntity
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, HTTPError{ErrorStr: err.Error()}, statusOf(err))
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, data, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf, _ := json.Marshal(data)
	_, _ = w.Write(buf)
}
