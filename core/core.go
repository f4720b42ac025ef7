// Package core is the client for the consent platform. A Client loads
// contract groups, reports signer activity and reads signed status, with
// synchronous and callback-based variants of every operation.
package core

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/internal/iocache"
	"github.com/huangsam/pactsafe/internal/transport"
	"github.com/huangsam/pactsafe/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrClientClosed is returned by operations issued after Close.
var ErrClientClosed = errors.New("client is closed")

// Executor runs completion callbacks. It must eventually call f exactly once.
type Executor func(f func())

// Inline runs f on the calling goroutine.
func Inline(f func()) { f() }

// Config holds the client settings. Only SiteAccessID is required before
// issuing requests, and it may also be supplied later through Configure.
type Config struct {
	SiteAccessID string
	BaseURL      string // Defaults to schema.DefaultBaseURL
	AppName      string // Prefixed to the User-Agent header
	TestMode     bool
	DebugMode    bool

	HTTPClient *http.Client
	Timeout    time.Duration // Defaults to 60 seconds
	RateLimit  float64       // Requests per second, 0 = unlimited

	// Transport replaces the HTTP transport entirely.
	Transport contract.Transport

	// Cache replaces the client-owned response cache. The client does not
	// close a cache it did not create.
	Cache           contract.CacheManager
	CacheBackend    schema.CacheBackend // Defaults to schema.MemoryBackend
	CacheMaxEntries int                 // Defaults to contract.DefaultCacheMaxEntries
	CacheTTL        time.Duration       // 0 = entries never expire

	// Workers bounds concurrent async operations. Defaults to contract.DefaultWorkers.
	Workers int

	// Completion runs async callbacks. Defaults to Inline on the worker goroutine.
	Completion Executor

	// Logger receives diagnostics. When nil, a stderr logger is created whose
	// level follows DebugMode.
	Logger *slog.Logger

	// Registerer receives the transport metrics. Nil disables registration.
	Registerer prometheus.Registerer
}

// Client talks to the consent platform. It is safe for concurrent use.
type Client struct {
	mu           sync.RWMutex
	siteAccessID string
	testMode     bool

	baseURL    string
	transport  contract.Transport
	cache      contract.CacheManager
	ownsCache  bool
	queue      *workQueue
	completion Executor
	logger     *slog.Logger
	level      *slog.LevelVar
	preloaded  atomic.Bool
	closed     atomic.Bool
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = schema.DefaultBaseURL
	}
	if err := contract.ValidateBaseURL(baseURL); err != nil {
		return nil, &schema.ConfigurationError{Field: "base_url", Err: err}
	}
	baseURL = strings.TrimRight(baseURL, "/")

	workers := cfg.Workers
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}

	c := &Client{
		siteAccessID: strings.TrimSpace(cfg.SiteAccessID),
		testMode:     cfg.TestMode,
		baseURL:      baseURL,
		queue:        newWorkQueue(workers),
		completion:   cfg.Completion,
		logger:       cfg.Logger,
	}
	if c.completion == nil {
		c.completion = Inline
	}
	if c.logger == nil {
		c.level = new(slog.LevelVar)
		c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.level}))
		c.SetDebugMode(cfg.DebugMode)
	}

	c.cache = cfg.Cache
	if c.cache == nil {
		maxEntries := cfg.CacheMaxEntries
		if maxEntries <= 0 {
			maxEntries = contract.DefaultCacheMaxEntries
		}
		backend := cfg.CacheBackend
		if backend == "" {
			backend = schema.MemoryBackend
		}
		store, err := iocache.NewCacheStore(backend, maxEntries, cfg.CacheTTL)
		if err != nil {
			return nil, &schema.ConfigurationError{Field: "cache", Err: err}
		}
		c.cache = iocache.NewCacheStoreManager(store)
		c.ownsCache = true
	}

	c.transport = cfg.Transport
	if c.transport == nil {
		var metrics *transport.Metrics
		if cfg.Registerer != nil {
			metrics = transport.NewMetrics(cfg.Registerer)
		}
		c.transport = transport.New(transport.Config{
			HTTPClient: cfg.HTTPClient,
			Timeout:    cfg.Timeout,
			UserAgent:  transport.DefaultUserAgent(cfg.AppName),
			Cache:      c.cache,
			RateLimit:  cfg.RateLimit,
			Logger:     c.logger,
			Metrics:    metrics,
		})
	}
	return c, nil
}

// Configure sets or replaces the site access identifier.
func (c *Client) Configure(siteAccessID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.siteAccessID = strings.TrimSpace(siteAccessID)
}

// SetTestMode marks subsequent activity and status requests as test data.
func (c *Client) SetTestMode(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.testMode = on
}

// TestMode reports whether test mode is on.
func (c *Client) TestMode() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.testMode
}

// SetDebugMode switches diagnostic logging between debug and warn level.
// It has no effect when the caller supplied its own Logger.
func (c *Client) SetDebugMode(on bool) {
	if c.level == nil {
		return
	}
	if on {
		c.level.Set(slog.LevelDebug)
	} else {
		c.level.Set(slog.LevelWarn)
	}
}

// Preloaded reports whether the last Preload succeeded.
func (c *Client) Preloaded() bool {
	return c.preloaded.Load()
}

// BaseURL returns the endpoint host the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RefreshCache drops every stored response, so the next cached load or
// preload goes live.
func (c *Client) RefreshCache() error {
	store := c.cache.GetResponseStore()
	if store == nil {
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear response cache: %w", err)
	}
	c.preloaded.Store(false)
	return nil
}

// CacheStatus describes the response cache.
func (c *Client) CacheStatus() (schema.CacheStatus, error) {
	store := c.cache.GetResponseStore()
	if store == nil {
		return schema.CacheStatus{Backend: string(schema.NoneBackend)}, nil
	}
	return store.GetStatus()
}

// Close waits until every async operation already issued has finished its
// request, then releases the cache when the client created it. Completions
// may still be running when Close returns, and a completion may call Close.
// Operations issued afterwards fail with ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	already := c.closed.Swap(true)
	c.mu.Unlock()
	if already {
		return nil
	}
	c.queue.wait()
	if c.ownsCache {
		if closer, ok := c.cache.(interface{ Close() error }); ok {
			return closer.Close()
		}
	}
	return nil
}

// settings returns the site access identifier and test mode, failing
// with a ConfigurationError when no identifier is configured.
func (c *Client) settings() (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.siteAccessID == "" {
		return "", false, &schema.ConfigurationError{Field: "site_access_id", Err: schema.ErrMissingSiteAccessID}
	}
	return c.siteAccessID, c.testMode, nil
}
