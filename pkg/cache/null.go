package cache

import (
	"context"
	"time"
)

// NullCache misses every lookup and discards every store. It stands in when
// caching is disabled, so callers never have to branch on a nil cache.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache creates a disabled cache.
func NewNullCache() Cache {
	return NullCache{}
}

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete does nothing.
func (NullCache) Delete(context.Context, string) error {
	return nil
}

// Close does nothing.
func (NullCache) Close() error {
	return nil
}
