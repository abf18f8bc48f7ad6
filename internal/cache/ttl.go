// Package cache implements the read-time TTL cache in front of remote calls.
//
// Entries are stored verbatim in a storage.Provider; freshness is judged on
// read from the provider's modification time, never by deleting entries.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/starford/sonar/internal/storage"
)

// DefaultMaxAge is used by callers that do not carry their own tolerance.
const DefaultMaxAge = 60 * time.Minute

// ErrNegativeAge is returned by Lookup for a negative tolerance.
var ErrNegativeAge = errors.New("cache: negative max age")

// TTL answers "bytes for key if not older than maxAge".
type TTL struct {
	store storage.Provider
	now   func() time.Time
}

// New wraps store.
func New(store storage.Provider) *TTL {
	return &TTL{store: store, now: time.Now}
}

// WithClock returns a copy of c that reads the current time from now.
func (c *TTL) WithClock(now func() time.Time) *TTL {
	return &TTL{store: c.store, now: now}
}

// Get returns the cached bytes for key when they are younger than maxAge.
// Misses, stale entries and invalid ages all report false.
func (c *TTL) Get(key string, maxAge time.Duration) ([]byte, bool) {
	data, err := c.Lookup(key, maxAge)
	if err != nil || data == nil {
		return nil, false
	}
	return data, true
}

// Lookup is Get with the negative-age rejection surfaced as an error.
// A nil slice with a nil error is a plain miss.
func (c *TTL) Lookup(key string, maxAge time.Duration) ([]byte, error) {
	if maxAge < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeAge, maxAge)
	}
	data, err := c.store.Read(key)
	if err != nil {
		return nil, nil
	}
	if maxAge == 0 {
		return nil, nil
	}
	mtime, err := c.store.ModTime(key)
	if err != nil {
		return nil, nil
	}
	if mtime.Before(c.now().Add(-maxAge)) {
		return nil, nil
	}
	return data, nil
}

// Add writes data under key and returns the storage location. A failed
// write is reported but callers are expected to carry on uncached.
func (c *TTL) Add(key string, data []byte) (string, error) {
	loc, err := c.store.Write(key, data)
	if err != nil {
		return "", fmt.Errorf("cache: add %s: %w", key, err)
	}
	return loc, nil
}
