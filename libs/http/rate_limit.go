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
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"code.dibs.finance/dibs/config/encoding"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
)

const defaultMaxClients = 10000

type RateLimitConfig struct {
	CoolDown  encoding.Duration `long:"cool-down" description:"minimum delay between two submissions of a client, e.g. 1s"`
	AllowList []string          `long:"allow-list" description:"subnets exempted from the limit, e.g. 10.0.0.0/8"`
	// the least recently seen clients are forgotten past this size
	MaxClients int `long:"max-clients" description:"number of greylisted clients remembered"`
}

// RateLimit greylists a client for the cool down after each request. A
// request received while greylisted extends the penalty.
type RateLimit struct {
	cfg       RateLimitConfig
	clock     clockwork.Clock
	allowList []*net.IPNet

	mu    sync.Mutex
	until *lru.Cache[string, time.Time]
}

func NewRateLimit(ctx context.Context, cfg RateLimitConfig, clock clockwork.Clock) (*RateLimit, error) {
	size := cfg.MaxClients
	if size <= 0 {
		size = defaultMaxClients
	}
	until, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, err
	}
	r := &RateLimit{
		cfg:   cfg,
		clock: clock,
		until: until,
	}
	for _, item := range cfg.AllowList {
		_, ipnet, err := net.ParseCIDR(item)
		if err != nil {
			return nil, fmt.Errorf("invalid allow list entry %q: %w", item, err)
		}
		r.allowList = append(r.allowList, ipnet)
	}
	go r.cleanup(ctx)
	return r, nil
}

// NewRequest returns an error if the client identified by ip is greylisted
// for the kind of request.
func (r *RateLimit) NewRequest(kind, ip string) error {
	if r.cfg.CoolDown.Duration <= 0 || r.allowListed(ip) {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := kind + " " + ip
	now := r.clock.Now()
	if until, ok := r.until.Get(key); ok && now.Before(until) {
		until = until.Add(r.cfg.CoolDown.Duration)
		r.until.Add(key, until)
		return fmt.Errorf("rate-limited (%s for %s) until %v", kind, ip, until)
	}
	r.until.Add(key, now.Add(r.cfg.CoolDown.Duration))
	return nil
}

func (r *RateLimit) allowListed(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, n := range r.allowList {
		if n.Contains(parsed) {
			return true
		}
	}
	return false
}

func (r *RateLimit) cleanup(ctx context.Context) {
	ticker := r.clock.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			now := r.clock.Now()
			r.mu.Lock()
			for _, key := range r.until.Keys() {
				if until, ok := r.until.Peek(key); ok && until.Before(now) {
					r.until.Remove(key)
				}
			}
			r.mu.Unlock()
		}
	}
}
