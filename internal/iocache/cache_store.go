package iocache

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/schema"
)

// cacheEntry is a stored response body.
type cacheEntry struct {
	value     []byte
	version   int
	timestamp int64
}

// CacheStoreImpl is a bounded in-memory response store. The least recently
// used entry is evicted when the store is full, and entries expire after
// the configured TTL when one is set.
type CacheStoreImpl struct {
	backend    schema.CacheBackend
	maxEntries int
	ttl        time.Duration
	lru        *expirable.LRU[string, cacheEntry]
	closed     atomic.Bool
}

var _ contract.CacheStore = &CacheStoreImpl{} // Compile-time check

// errStoreClosed is returned by operations on a closed store.
var errStoreClosed = errors.New("cache store is closed")

// NewCacheStore creates a store for the given backend. The none backend
// yields a store that never holds anything.
func NewCacheStore(backend schema.CacheBackend, maxEntries int, ttl time.Duration) (contract.CacheStore, error) {
	switch backend {
	case schema.MemoryBackend, "":
		if maxEntries <= 0 {
			return nil, fmt.Errorf("max entries must be greater than 0 (received %d)", maxEntries)
		}
		if ttl < 0 {
			return nil, fmt.Errorf("ttl cannot be negative (received %s)", ttl)
		}
		return &CacheStoreImpl{
			backend:    schema.MemoryBackend,
			maxEntries: maxEntries,
			ttl:        ttl,
			lru:        expirable.NewLRU[string, cacheEntry](maxEntries, nil, ttl),
		}, nil
	case schema.NoneBackend:
		return &CacheStoreImpl{backend: schema.NoneBackend}, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", backend)
	}
}

// Get retrieves a copy of a stored response. A missing, expired or evicted
// entry returns contract.ErrCacheMiss.
func (cs *CacheStoreImpl) Get(key string) ([]byte, int, int64, error) {
	if cs.closed.Load() {
		return nil, 0, 0, errStoreClosed
	}
	if cs.lru == nil {
		return nil, 0, 0, contract.ErrCacheMiss
	}
	entry, ok := cs.lru.Get(key)
	if !ok {
		return nil, 0, 0, contract.ErrCacheMiss
	}
	return append([]byte(nil), entry.value...), entry.version, entry.timestamp, nil
}

// Set inserts or replaces an entry. The value is copied.
func (cs *CacheStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	if cs.closed.Load() {
		return errStoreClosed
	}
	if cs.lru == nil {
		return nil
	}
	cs.lru.Add(key, cacheEntry{
		value:     append([]byte(nil), value...),
		version:   version,
		timestamp: timestamp,
	})
	return nil
}

// Delete removes an entry if present.
func (cs *CacheStoreImpl) Delete(key string) error {
	if cs.closed.Load() {
		return errStoreClosed
	}
	if cs.lru != nil {
		cs.lru.Remove(key)
	}
	return nil
}

// Clear removes every entry.
func (cs *CacheStoreImpl) Clear() error {
	if cs.closed.Load() {
		return errStoreClosed
	}
	if cs.lru != nil {
		cs.lru.Purge()
	}
	return nil
}

// Close releases the entries. Further calls fail.
func (cs *CacheStoreImpl) Close() error {
	if cs.closed.Swap(true) {
		return nil
	}
	if cs.lru != nil {
		cs.lru.Purge()
	}
	return nil
}

// GetStatus returns status information about the store.
func (cs *CacheStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:    string(cs.backend),
		Connected:  !cs.closed.Load(),
		MaxEntries: cs.maxEntries,
		TTL:        cs.ttl,
	}
	if !status.Connected || cs.lru == nil {
		return status, nil
	}

	for _, entry := range cs.lru.Values() {
		status.TotalEntries++
		status.SizeBytes += int64(len(entry.value))
		ts := time.Unix(0, entry.timestamp)
		if status.LastEntryTime.IsZero() || ts.After(status.LastEntryTime) {
			status.LastEntryTime = ts
		}
		if status.OldestEntryTime.IsZero() || ts.Before(status.OldestEntryTime) {
			status.OldestEntryTime = ts
		}
	}
	return status, nil
}
