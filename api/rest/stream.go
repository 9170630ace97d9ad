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
	"net/http"
	"time"

	"code.dibs.finance/dibs/core/broker"
	"code.dibs.finance/dibs/logging"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const streamBuffer = 256

// WithStreams serves the events live over a websocket on
// /api/v1/events/stream.
func (s *Server) WithStreams(streams Streams) *Server {
	s.streams = streams
	s.GET("/api/v1/events/stream", s.observe("events_stream", s.StreamEvents))
	return s
}

func (s *Server) StreamEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	up := websocket.Upgrader{
		HandshakeTimeout: s.cfg.Timeout.Get(),
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.cfg.CORS.AllowsOrigin(origin)
		},
	}
	// subscribed before the handshake completes, the client misses nothing
	// sent once it is connected
	stream := broker.NewStream(streamBuffer)
	k := s.streams.Subscribe(stream)
	defer func() {
		s.streams.Unsubscribe(k)
		stream.Close()
	}()

	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("couldn't open event stream", logging.Error(err))
		return
	}
	defer conn.Close()
	// the deadlines of the HTTP server do not apply to the stream
	_ = conn.SetReadDeadline(time.Time{})

	// the client never writes, reading only detects it going away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case e, ok := <-stream.C():
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "stream overflowed, resume from the history")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.Timeout.Get()))
			if err := conn.WriteJSON(EventResponse{Sequence: e.Sequence(), Type: e.Type().String(), Payload: e}); err != nil {
				s.log.Debug("event stream closed", logging.Error(err))
				return
			}
		}
	}
}
