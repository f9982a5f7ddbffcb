package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Defaults applied when a Config leaves a field unset.
const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 100
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// FetchFunc produces a value for a key that missed the cache. It may perform
// network I/O and may fail; failures are never cached.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Config configures a cache instance. TTL and MaxEntries are fixed for the
// lifetime of the instance.
type Config struct {
	// TTL is the maximum age of an entry, measured from insertion.
	// Default: 5 minutes
	TTL time.Duration

	// MaxEntries bounds the number of live entries.
	// Default: 100
	MaxEntries int

	// Clock returns the current time. Tests substitute a fake clock.
	// Default: time.Now
	Clock func() time.Time
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Entries     int    `json:"entries"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`
}

// ValidateKey checks if a key is usable as a cache key or key prefix.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
