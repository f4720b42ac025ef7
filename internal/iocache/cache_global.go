package iocache

import (
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/pactsafe/schema"
)

// Global Manager instance for the command line.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitCaching initializes the global cache manager. Repeated calls are no-ops.
func InitCaching(backend schema.CacheBackend, maxEntries int, ttl time.Duration) error {
	var initErr error

	initOnce.Do(func() {
		store, err := NewCacheStore(backend, maxEntries, ttl)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize response caching: %w", err)
			return
		}
		Manager.Lock()
		Manager.responses = store
		Manager.Unlock()
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() {
	closeOnce.Do(func() {
		_ = Manager.Close()
	})
}

// ClearCache removes every entry from the global store.
func ClearCache() error {
	store := Manager.GetResponseStore()
	if store == nil {
		return fmt.Errorf("response cache is not initialized")
	}
	return store.Clear()
}
