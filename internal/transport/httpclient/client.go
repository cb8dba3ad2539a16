package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/foldcall/internal/domain"
	"github.com/kailas-cloud/foldcall/internal/domain/outcome"
	"github.com/kailas-cloud/foldcall/internal/metrics"
)

// Header names set on every request.
const (
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"
	HeaderUserAgent   = "User-Agent"
	HeaderRequestID   = "X-Request-ID"

	contentTypeJSON = "application/json"
)

// TransportConfig tunes the underlying connection pool. Zero values keep
// the net/http defaults.
type TransportConfig struct {
	DialTimeout         time.Duration
	KeepAlive           time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// Config holds the prediction service connection settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration // 0 = no client-side timeout
	UserAgent string
	Transport TransportConfig
	Logger    *zap.Logger
	Metrics   *metrics.PredictionSet // nil = package-level collectors
}

// Compile-time check: Client implements domain.Poster.
var _ domain.Poster = (*Client)(nil)

// Client posts JSON payloads to the prediction service.
type Client struct {
	core      *http.Client
	baseURL   string
	userAgent string
	logger    *zap.Logger
	metrics   *metrics.PredictionSet
}

// New creates a client with an otelhttp-instrumented transport.
func New(cfg *Config) (*Client, error) {
	return NewWithHTTPClient(cfg, &http.Client{
		Transport: otelhttp.NewTransport(newTransport(cfg.Transport)),
		Timeout:   cfg.Timeout,
	})
}

// NewWithHTTPClient creates a client that sends requests through hc as-is.
func NewWithHTTPClient(cfg *Config, hc *http.Client) (*Client, error) {
	base, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ms := cfg.Metrics
	if ms == nil {
		ms = metrics.DefaultPredictionSet()
	}
	return &Client{
		core:      hc,
		baseURL:   base,
		userAgent: cfg.UserAgent,
		logger:    logger,
		metrics:   ms,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("base url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q has no host", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func newTransport(cfg TransportConfig) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.DialTimeout > 0 || cfg.KeepAlive > 0 {
		t.DialContext = (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext
	}
	if cfg.MaxIdleConns > 0 {
		t.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}
	if cfg.IdleConnTimeout > 0 {
		t.IdleConnTimeout = cfg.IdleConnTimeout
	}
	return t
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns the absolute URL of an endpoint.
func (c *Client) URL(endpoint domain.Endpoint) string {
	return c.baseURL + endpoint.Path()
}

// Post sends body to the endpoint and returns the response whatever its status.
// Only failures to obtain a complete response are returned as errors, and they
// wrap domain.ErrTransport.
func (c *Client) Post(ctx context.Context, endpoint domain.Endpoint, body []byte) (domain.Response, error) {
	if endpoint.Path() == "" {
		return domain.Response{}, fmt.Errorf("%w: %q", domain.ErrUnknownEndpoint, endpoint)
	}

	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(endpoint), bytes.NewReader(body))
	if err != nil {
		return domain.Response{}, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set(HeaderContentType, contentTypeJSON)
	req.Header.Set(HeaderAccept, contentTypeJSON)
	req.Header.Set(HeaderRequestID, requestID)
	if c.userAgent != "" {
		req.Header.Set(HeaderUserAgent, c.userAgent)
	}

	start := time.Now()
	resp, err := c.core.Do(req)
	if err != nil {
		c.transportFailed(endpoint, requestID, start, err)
		return domain.Response{}, domain.NewTransportError(endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.transportFailed(endpoint, requestID, start, err)
		return domain.Response{}, domain.NewTransportError(endpoint, fmt.Errorf("read body: %w", err))
	}

	ep := string(endpoint)
	c.metrics.RequestsTotal.WithLabelValues(ep, string(outcome.Classify(resp.StatusCode))).Inc()
	c.metrics.RequestDuration.WithLabelValues(ep).Observe(time.Since(start).Seconds())

	return domain.Response{StatusCode: resp.StatusCode, Body: data, RequestID: requestID}, nil
}

func (c *Client) transportFailed(endpoint domain.Endpoint, requestID string, start time.Time, err error) {
	c.metrics.TransportErrorsTotal.WithLabelValues(string(endpoint)).Inc()
	c.logger.Debug("prediction request failed in transport",
		zap.String("endpoint", string(endpoint)),
		zap.String("request_id", requestID),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	)
}

// Probe checks that the service host accepts TCP connections.
// It does not speak the prediction protocol, which has no health route.
func (c *Client) Probe(ctx context.Context) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(u.Hostname(), port))
	if err != nil {
		return fmt.Errorf("probe %s: %w", u.Host, err)
	}
	_ = conn.Close()
	return nil
}

type requestIDKey struct{}

// ContextWithRequestID makes Post reuse id instead of generating one.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
