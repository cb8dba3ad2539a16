package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/foldcall/internal/db"
	"github.com/kailas-cloud/foldcall/internal/domain"
	"github.com/kailas-cloud/foldcall/internal/domain/outcome"
)

var cacheKeyPrefix = domain.KeyPrefix + "resp_cache:"

// statusHeaderLen is the size of the status code prefix of a cached entry.
const statusHeaderLen = 2

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedPoster caches successful prediction responses in a key-value store.
type CachedPoster struct {
	inner      domain.Poster
	store      store
	scope      string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Poster,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedPoster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedPoster{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithScope separates entries of different prediction services sharing one store.
// Pass the service base URL.
func (c *CachedPoster) WithScope(scope string) *CachedPoster {
	c.scope = scope
	return c
}

// Post returns a cached 2xx response for an identical body or calls the inner poster.
// Only 2xx responses with a JSON body are stored. Cache errors never fail the call.
func (c *CachedPoster) Post(ctx context.Context, endpoint domain.Endpoint, body []byte) (domain.Response, error) {
	key := c.cacheKey(endpoint, body)

	if resp, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return resp, nil
	}

	c.incCache("miss")

	resp, err := c.inner.Post(ctx, endpoint, body)
	if err != nil {
		return domain.Response{}, fmt.Errorf("post %s: %w", endpoint, err)
	}

	if cacheable(resp) {
		c.putToCache(ctx, key, resp)
	}
	return resp, nil
}

func (c *CachedPoster) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedPoster) cacheKey(endpoint domain.Endpoint, body []byte) string {
	h := sha256.New()
	h.Write([]byte(c.scope))
	h.Write([]byte{0})
	h.Write(body)
	return cacheKeyPrefix + string(endpoint) + ":" + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedPoster) getFromCache(ctx context.Context, key string) (domain.Response, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached response", zap.String("key", key), zap.Error(err))
		}
		return domain.Response{}, false
	}

	resp, err := decodeEntry(data)
	if err != nil {
		c.logger.Warn("Dropping unusable cached response", zap.String("key", key), zap.Error(err))
		if err := c.store.Del(ctx, key); err != nil {
			c.logger.Warn("Failed to delete cached response", zap.String("key", key), zap.Error(err))
		}
		return domain.Response{}, false
	}
	return resp, true
}

func (c *CachedPoster) putToCache(ctx context.Context, key string, resp domain.Response) {
	if err := c.store.SetWithTTL(ctx, key, encodeEntry(resp), c.ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}

// cacheable reports whether resp is a 2xx whose body decodes as JSON.
func cacheable(resp domain.Response) bool {
	if outcome.Classify(resp.StatusCode) != outcome.ClassSuccess {
		return false
	}
	_, err := outcome.Decode(resp.Body)
	return err == nil
}

func encodeEntry(resp domain.Response) []byte {
	buf := make([]byte, statusHeaderLen+len(resp.Body))
	binary.BigEndian.PutUint16(buf, uint16(resp.StatusCode))
	copy(buf[statusHeaderLen:], resp.Body)
	return buf
}

func decodeEntry(data []byte) (domain.Response, error) {
	if len(data) < statusHeaderLen {
		return domain.Response{}, fmt.Errorf("invalid response cache data: len=%d", len(data))
	}
	resp := domain.Response{
		StatusCode: int(binary.BigEndian.Uint16(data)),
		Body:       data[statusHeaderLen:],
		Cached:     true,
	}
	if !cacheable(resp) {
		return domain.Response{}, fmt.Errorf("invalid response cache data: status %d, %d body bytes", resp.StatusCode, len(resp.Body))
	}
	return resp, nil
}
