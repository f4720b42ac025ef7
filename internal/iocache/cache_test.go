package iocache

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaching(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		Manager = &CacheStoreManager{}

		err := InitCaching(schema.MemoryBackend, 16, 0)
		assert.NoError(t, err, "Failed to initialize caching")
		assert.NotNil(t, Manager.GetResponseStore(), "Response store should not be nil")

		require.NoError(t, Manager.GetResponseStore().Set("k", []byte("v"), contract.CacheVersion, 1))
		require.NoError(t, ClearCache())
		_, _, _, err = Manager.GetResponseStore().Get("k")
		assert.ErrorIs(t, err, contract.ErrCacheMiss)

		CloseCaching()
	})

	t.Run("idempotent setup", func(t *testing.T) {
		initOnce = sync.Once{}  // Reset for test
		closeOnce = sync.Once{} // Reset for test
		Manager = &CacheStoreManager{}

		err1 := InitCaching(schema.MemoryBackend, 16, 0)
		err2 := InitCaching(schema.NoneBackend, 16, 0)
		err3 := InitCaching(schema.MemoryBackend, 16, 0)

		assert.NoError(t, err1, "First init should not fail")
		assert.NoError(t, err2, "Second init should not fail")
		assert.NoError(t, err3, "Third init should not fail")

		status, err := Manager.GetResponseStore().GetStatus()
		require.NoError(t, err)
		assert.Equal(t, string(schema.MemoryBackend), status.Backend, "first init wins")

		CloseCaching()
		CloseCaching()
		CloseCaching()
	})

	t.Run("invalid settings", func(t *testing.T) {
		initOnce = sync.Once{} // Reset for test
		Manager = &CacheStoreManager{}

		err := InitCaching(schema.MemoryBackend, 0, 0)
		assert.Error(t, err)
		assert.Error(t, ClearCache(), "nothing to clear")
	})
}

func TestMemoryStore(t *testing.T) {
	store, err := NewCacheStore(schema.MemoryBackend, 2, 0)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	t.Run("miss then hit", func(t *testing.T) {
		_, _, _, err := store.Get("a")
		assert.ErrorIs(t, err, contract.ErrCacheMiss)

		require.NoError(t, store.Set("a", []byte("alpha"), contract.CacheVersion, 10))
		value, version, ts, err := store.Get("a")
		require.NoError(t, err)
		assert.Equal(t, []byte("alpha"), value)
		assert.Equal(t, contract.CacheVersion, version)
		assert.Equal(t, int64(10), ts)
	})

	t.Run("stored value is copied", func(t *testing.T) {
		buf := []byte("beta")
		require.NoError(t, store.Set("b", buf, contract.CacheVersion, 11))
		buf[0] = 'X'
		value, _, _, err := store.Get("b")
		require.NoError(t, err)
		assert.Equal(t, []byte("beta"), value)
	})

	t.Run("returned value is a copy", func(t *testing.T) {
		value, _, _, err := store.Get("b")
		require.NoError(t, err)
		value[0] = 'X'
		again, _, _, err := store.Get("b")
		require.NoError(t, err)
		assert.Equal(t, []byte("beta"), again)
	})

	t.Run("last writer wins", func(t *testing.T) {
		require.NoError(t, store.Set("b", []byte("beta2"), contract.CacheVersion, 12))
		value, _, _, err := store.Get("b")
		require.NoError(t, err)
		assert.Equal(t, []byte("beta2"), value)
	})

	t.Run("bounded by max entries", func(t *testing.T) {
		require.NoError(t, store.Set("c", []byte("gamma"), contract.CacheVersion, 13))
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, 2, status.MaxEntries)

		_, _, _, err = store.Get("a")
		assert.ErrorIs(t, err, contract.ErrCacheMiss, "least recently used entry is evicted")
	})

	t.Run("delete and clear", func(t *testing.T) {
		require.NoError(t, store.Delete("c"))
		_, _, _, err := store.Get("c")
		assert.ErrorIs(t, err, contract.ErrCacheMiss)

		require.NoError(t, store.Clear())
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Zero(t, status.TotalEntries)
	})
}

func TestMemoryStoreTTL(t *testing.T) {
	store, err := NewCacheStore(schema.MemoryBackend, 4, 20*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Set("k", []byte("v"), contract.CacheVersion, 1))
	assert.Eventually(t, func() bool {
		_, _, _, err := store.Get("k")
		return err != nil
	}, time.Second, 10*time.Millisecond, "entry should expire")
}

func TestNoneStore(t *testing.T) {
	store, err := NewCacheStore(schema.NoneBackend, 0, 0)
	require.NoError(t, err)

	require.NoError(t, store.Set("k", []byte("v"), contract.CacheVersion, 1))
	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, contract.ErrCacheMiss)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.True(t, status.Connected)
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := NewCacheStore("sqlite", 1, 0)
	assert.Error(t, err)
	_, err = NewCacheStore(schema.MemoryBackend, 1, -time.Second)
	assert.Error(t, err)
}

func TestClosedStore(t *testing.T) {
	store, err := NewCacheStore(schema.MemoryBackend, 4, 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "close is idempotent")

	assert.Error(t, store.Set("k", nil, 1, 1))
	_, _, _, err = store.Get("k")
	assert.Error(t, err)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestConcurrentAccess(t *testing.T) {
	store, err := NewCacheStore(schema.MemoryBackend, 64, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Go(func() {
			key := fmt.Sprintf("k%d", i%4)
			for j := range 50 {
				_ = store.Set(key, []byte{byte(j)}, contract.CacheVersion, int64(j))
				_, _, _, _ = store.Get(key)
			}
		})
	}
	wg.Wait()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 4, status.TotalEntries)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("get", "HTTPS://PactSafe.IO/load/json?sid=1&gkey=g")
	b := CacheKey("GET", "https://pactsafe.io/load/json?gkey=g&sid=1")
	assert.Equal(t, a, b)
	assert.Equal(t, "GET https://pactsafe.io/load/json?gkey=g&sid=1", a)

	assert.NotEqual(t, a, CacheKey("POST", "https://pactsafe.io/load/json?gkey=g&sid=1"))
	assert.NotEqual(t, a, CacheKey("GET", "https://pactsafe.io/load/json?gkey=other&sid=1"))
	assert.Equal(t, "GET ::bad", CacheKey("GET", "::bad"))
}

func TestManagerSwap(t *testing.T) {
	first := &MockCacheStore{}
	first.On("Close").Return(nil).Once()
	mgr := NewCacheStoreManager(first)

	second, err := NewCacheStore(schema.MemoryBackend, 1, 0)
	require.NoError(t, err)
	require.NoError(t, mgr.Swap(second))
	assert.Same(t, second, mgr.GetResponseStore())
	first.AssertExpectations(t)
}

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend:         "memory",
		Connected:       true,
		TotalEntries:    2,
		MaxEntries:      256,
		LastEntryTime:   now,
		OldestEntryTime: now.Add(-time.Hour),
		SizeBytes:       42,
	})
	out := buf.String()
	assert.Contains(t, out, "Cache Backend: memory")
	assert.Contains(t, out, "Total Entries: 2 / 256")
	assert.Contains(t, out, "Entry TTL: none")
	assert.Contains(t, out, "Stored Size: 42 bytes")

	buf.Reset()
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "memory"})
	assert.NotContains(t, buf.String(), "Total Entries")
}
