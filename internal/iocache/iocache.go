// Package iocache is for caching I/O calls.
package iocache

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/huangsam/pactsafe/internal/contract"
)

// CacheStoreManager owns the response store for one client.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization and reset
	responses    contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewCacheStoreManager wraps store in a manager.
func NewCacheStoreManager(store contract.CacheStore) *CacheStoreManager {
	return &CacheStoreManager{responses: store}
}

// GetResponseStore returns the response CacheStore.
func (mgr *CacheStoreManager) GetResponseStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.responses
}

// Swap replaces the response store and closes the previous one.
func (mgr *CacheStoreManager) Swap(store contract.CacheStore) error {
	mgr.Lock()
	prev := mgr.responses
	mgr.responses = store
	mgr.Unlock()
	if prev != nil {
		return prev.Close()
	}
	return nil
}

// Close closes the response store.
func (mgr *CacheStoreManager) Close() error {
	mgr.Lock()
	defer mgr.Unlock()
	if mgr.responses == nil {
		return nil
	}
	return mgr.responses.Close()
}

// CacheKey normalizes a request descriptor into a cache key. The scheme
// and host are lower-cased and query parameters are sorted by name, so
// equivalent URLs share an entry.
func CacheKey(method, rawURL string) string {
	method = strings.ToUpper(method)
	u, err := url.Parse(rawURL)
	if err != nil {
		return method + " " + rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		pairs := strings.Split(u.RawQuery, "&")
		sort.SliceStable(pairs, func(i, j int) bool {
			ni, _, _ := strings.Cut(pairs[i], "=")
			nj, _, _ := strings.Cut(pairs[j], "=")
			return ni < nj
		})
		u.RawQuery = strings.Join(pairs, "&")
	}
	return method + " " + u.String()
}
