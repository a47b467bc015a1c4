// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// DefaultTTL is how long a stored response is served from the cache.
const DefaultTTL = 5 * time.Minute

// Entry is a cached value and the time it was stored.
type Entry[V any] struct {
	Value    V
	StoredAt time.Time
}

// Store is an in-memory key/value map whose entries are only returned while
// younger than the TTL. The zero value is not usable; use New.
type Store[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Store.
type Option func(*options)

type options struct {
	ttl time.Duration
	now func() time.Time
}

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New returns an empty Store.
func New[V any](opts ...Option) *Store[V] {
	o := options{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[V]{
		entries: make(map[string]Entry[V]),
		ttl:     o.ttl,
		now:     o.now,
	}
}

// Get returns the entry for key if it was stored less than TTL ago. Expired
// entries read as a miss but are left in place.
func (s *Store[V]) Get(key string) (Entry[V], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return Entry[V]{}, false
	}
	if age := s.now().Sub(entry.StoredAt); age >= s.ttl {
		log.Debugf("cache expired: %s (age %s)", key, age)
		return Entry[V]{}, false
	}
	return entry, true
}

// Put stores v under key, replacing anything already there.
func (s *Store[V]) Put(key string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry[V]{Value: v, StoredAt: s.now()}
}

// Len returns the number of entries, expired ones included.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// TTL returns the configured time-to-live.
func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}

// Key builds the cache key for a search. The query is lower-cased so keys
// differing only in case collide.
func Key(query string, page, pageSize int) string {
	return fmt.Sprintf("%s-%d-%d", strings.ToLower(query), page, pageSize)
}
