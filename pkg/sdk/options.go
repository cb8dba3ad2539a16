package foldcall

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
	strict     bool

	cacheDriver string // "valkey" or "redis", empty = no cache
	cacheAddrs  []string
	cacheUser   string
	cachePass   string
	cacheDB     int
	standalone  bool
	cacheTTL    time.Duration
	readiness   time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL sets the address of the prediction service.
// Defaults to http://localhost:8000.
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithTimeout bounds each request, including reading the response.
// Zero (default) leaves requests bounded only by the caller's context.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return optionFunc(func(c *clientConfig) {
		c.userAgent = ua
	})
}

// WithHTTPClient sends requests through hc as-is.
// WithTimeout is ignored; set hc.Timeout instead.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithStrictValidation rejects malformed requests with ErrInvalidRequest
// before anything is sent. By default requests are sent exactly as given.
func WithStrictValidation() Option {
	return optionFunc(func(c *clientConfig) {
		c.strict = true
	})
}

// WithValkeyCache caches successful responses in a Valkey instance.
func WithValkeyCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePass = password
	})
}

// WithRedisCache caches successful responses in a Redis instance.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePass = password
	})
}

// WithCacheACL authenticates to the cache as username and selects database db.
// Use with WithValkeyCache or WithRedisCache, which set the password.
func WithCacheACL(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheUser = username
		c.cacheDB = db
	})
}

// WithStandalone disables cluster topology discovery for the cache.
// Use for standalone Valkey/Redis instances (not managed by cluster operator).
func WithStandalone() Option {
	return optionFunc(func(c *clientConfig) {
		c.standalone = true
	})
}

// WithCacheTTL sets how long cached responses live. Non-positive values keep the default of 24h.
func WithCacheTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = d
	})
}

// WithReadinessTimeout bounds the wait for the cache to answer PING in New.
// Non-positive values keep the default of 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readiness = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
