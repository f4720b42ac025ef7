// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/huangsam/pactsafe/schema"
)

// ErrCacheMiss is returned by CacheStore.Get when no entry exists.
var ErrCacheMiss = errors.New("cache miss")

// CacheVersion is stamped on every stored response. Entries written with
// another version are treated as misses.
const CacheVersion = 1

// Transport issues requests against the consent platform.
// This allows the client to be tested without a live endpoint.
type Transport interface {
	// Get fetches rawURL. The mode decides whether the response cache is
	// consulted and populated.
	Get(ctx context.Context, rawURL string, mode schema.CacheMode) ([]byte, error)

	// Post sends to rawURL. The acknowledgement body may be empty.
	Post(ctx context.Context, rawURL string) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
}

// CacheStore defines the interface for response storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	Clear() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
