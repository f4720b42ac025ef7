// Package transport issues the HTTP requests behind every client
// operation and classifies their outcomes.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"github.com/huangsam/pactsafe/internal/contract"
	"github.com/huangsam/pactsafe/internal/iocache"
	"github.com/huangsam/pactsafe/schema"
	"golang.org/x/time/rate"
)

// DefaultMaxResponseSize bounds how much of a response body is read.
const DefaultMaxResponseSize = 4 << 20

// maxErrorBody bounds the body excerpt kept on an HTTPError.
const maxErrorBody = 256

// Config holds the transport settings.
type Config struct {
	// HTTPClient is used for every request. When nil a client with
	// Timeout is created.
	HTTPClient *http.Client

	// Timeout applies to the created client. Defaults to 60 seconds.
	Timeout time.Duration

	// UserAgent identifies the client. Defaults to DefaultUserAgent("").
	UserAgent string

	// Cache provides the response store consulted by GET requests.
	// When nil, or when it holds no store, caching is skipped.
	Cache contract.CacheManager

	// RateLimit caps outgoing requests per second. Zero disables it.
	RateLimit float64

	// MaxResponseSize bounds response bodies. Defaults to DefaultMaxResponseSize.
	MaxResponseSize int64

	Logger  *slog.Logger
	Metrics *Metrics
}

// HTTPTransport is the net/http implementation of contract.Transport.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
	cache     contract.CacheManager
	limiter   *rate.Limiter
	maxBody   int64
	logger    *slog.Logger
	metrics   *Metrics
}

var _ contract.Transport = &HTTPTransport{} // Compile-time check

// New creates an HTTPTransport.
func New(cfg Config) *HTTPTransport {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = contract.DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent("")
	}

	maxBody := cfg.MaxResponseSize
	if maxBody <= 0 {
		maxBody = DefaultMaxResponseSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = contract.DiscardLogger()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := max(int(cfg.RateLimit), 1)
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &HTTPTransport{
		client:    client,
		userAgent: userAgent,
		cache:     cfg.Cache,
		limiter:   limiter,
		maxBody:   maxBody,
		logger:    logger,
		metrics:   cfg.Metrics,
	}
}

// DefaultUserAgent builds the client identifier header value. appName,
// when set, is prefixed so the platform can tell embedding apps apart.
func DefaultUserAgent(appName string) string {
	ua := fmt.Sprintf("%s/%s (%s; %s; %s)", "pactsafe-go", schema.ClientVersion, runtime.GOOS, runtime.GOARCH, runtime.Version())
	if appName != "" {
		ua = appName + " " + ua
	}
	return ua
}

// Get fetches rawURL. Success requires a 2xx status and a non-empty body.
// With schema.CacheUse a stored response is returned without a request;
// with schema.CacheUse or schema.CacheRefresh a successful response is
// stored. Storage failures are logged and never fail the call.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string, mode schema.CacheMode) ([]byte, error) {
	store := t.store(mode)
	key := iocache.CacheKey(http.MethodGet, rawURL)

	if store != nil && mode == schema.CacheUse {
		if body, ok := t.lookup(store, key); ok {
			return body, nil
		}
	}

	body, err := t.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, &schema.TransportError{Method: http.MethodGet, Err: schema.ErrEmptyResponse}
	}

	if store != nil {
		if err := store.Set(key, body, contract.CacheVersion, time.Now().UnixNano()); err != nil {
			t.logger.Warn("response cache write failed", "key", key, "error", err)
		}
	}
	return body, nil
}

// Post sends to rawURL with no body. An empty 2xx acknowledgement is a
// success. POST responses are never cached.
func (t *HTTPTransport) Post(ctx context.Context, rawURL string) ([]byte, error) {
	return t.do(ctx, http.MethodPost, rawURL)
}

func (t *HTTPTransport) store(mode schema.CacheMode) contract.CacheStore {
	if mode == schema.CacheNone || t.cache == nil {
		return nil
	}
	return t.cache.GetResponseStore()
}

func (t *HTTPTransport) lookup(store contract.CacheStore, key string) ([]byte, bool) {
	body, version, _, err := store.Get(key)
	switch {
	case err == nil && version == contract.CacheVersion && len(body) > 0:
		t.metrics.observeCache("hit")
		t.logger.Debug("response cache hit", "key", key)
		return body, true
	case err != nil && !errors.Is(err, contract.ErrCacheMiss):
		t.logger.Warn("response cache read failed", "key", key, "error", err)
	}
	t.metrics.observeCache("miss")
	return nil, false
}

// do performs a single attempt. No retries are made.
func (t *HTTPTransport) do(ctx context.Context, method, rawURL string) ([]byte, error) {
	endpoint := endpointOf(rawURL)

	request, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, &schema.URLConstructionError{URL: rawURL, Err: err}
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", t.userAgent)

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, &schema.TransportError{Method: method, Err: err}
		}
	}

	start := time.Now()
	t.logger.Debug("request", "method", method, "endpoint", endpoint)

	response, err := t.client.Do(request)
	if err != nil {
		t.metrics.observeRequest(method, endpoint, outcomeTransport, time.Since(start).Seconds())
		t.logger.Debug("request failed", "method", method, "endpoint", endpoint, "error", err)
		return nil, &schema.TransportError{Method: method, Err: err}
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(response.Body, t.maxBody+1))
	if err != nil {
		t.metrics.observeRequest(method, endpoint, outcomeTransport, time.Since(start).Seconds())
		return nil, &schema.TransportError{Method: method, Err: fmt.Errorf("reading response body: %w", err)}
	}
	if int64(len(body)) > t.maxBody {
		t.metrics.observeRequest(method, endpoint, outcomeTransport, time.Since(start).Seconds())
		return nil, &schema.TransportError{Method: method, Err: fmt.Errorf("response body exceeds %d bytes", t.maxBody)}
	}

	elapsed := time.Since(start)
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		t.metrics.observeRequest(method, endpoint, outcomeHTTPError, elapsed.Seconds())
		t.logger.Debug("request rejected", "method", method, "endpoint", endpoint, "status", response.StatusCode)
		return nil, &schema.HTTPError{
			StatusCode: response.StatusCode,
			Status:     response.Status,
			Body:       excerpt(body),
		}
	}

	t.metrics.observeRequest(method, endpoint, outcomeSuccess, elapsed.Seconds())
	t.logger.Debug("response", "method", method, "endpoint", endpoint, "status", response.StatusCode, "bytes", len(body), "elapsed", elapsed)
	return body, nil
}

// endpointOf returns the URL path, used as a bounded metric label.
func endpointOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "unknown"
	}
	return u.Path
}

func excerpt(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
