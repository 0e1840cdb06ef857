// Sociograph - Social Graph Backend and People Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sociograph

// Package ratelimit provides a per-identity token-bucket rate limiter
// with idle-entry eviction, so the limiter map cannot grow without
// bound as identities come and go.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks a token bucket per identity. Entries idle for longer
// than the TTL are removed by Sweep.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	limit rate.Limit
	burst int
	ttl   time.Duration

	now func() time.Time
}

// New returns a Limiter allowing reqs requests per window, with a
// burst of reqs, evicting entries idle longer than ttl.
func New(reqs int, window, ttl time.Duration) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(float64(reqs) / window.Seconds()),
		burst:   reqs,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Allow reports whether the identity may proceed, consuming a token
// when it may.
func (l *Limiter) Allow(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identity]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[identity] = e
	}
	e.lastSeen = l.now()
	return e.limiter.Allow()
}

// Sweep removes entries idle longer than the TTL and returns how many
// were evicted.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.ttl)
	evicted := 0
	for id, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of tracked identities.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
