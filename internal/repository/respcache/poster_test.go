package respcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/foldcall/internal/domain"
)

func newCacheCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
}

func TestPost_MissThenHit(t *testing.T) {
	inner := &mockPoster{resp: domain.Response{StatusCode: 200, Body: []byte(`{"pdb":"ATOM"}`), RequestID: "r1"}}
	kv := newMockKVStore()
	counter := newCacheCounter()
	c := New(inner, kv, time.Hour, counter, zap.NewNop())

	body := []byte(`{"sequences":["AAA"]}`)

	first, err := c.Post(context.Background(), domain.EndpointStructure, body)
	if err != nil {
		t.Fatalf("first Post: %v", err)
	}
	if first.Cached {
		t.Error("first response must not be marked cached")
	}

	second, err := c.Post(context.Background(), domain.EndpointStructure, body)
	if err != nil {
		t.Fatalf("second Post: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if !second.Cached || second.StatusCode != 200 || string(second.Body) != `{"pdb":"ATOM"}` {
		t.Errorf("cached response = %+v", second)
	}

	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("hit = %v, want 1", got)
	}

	for key, ttl := range kv.ttls {
		if !strings.HasPrefix(key, "foldcall:resp_cache:structure:") {
			t.Errorf("unexpected key %q", key)
		}
		if ttl != time.Hour {
			t.Errorf("ttl = %v, want 1h", ttl)
		}
	}
}

func TestPost_KeyDependsOnEndpointAndBody(t *testing.T) {
	c := New(&mockPoster{}, newMockKVStore(), 0, nil, nil)
	a := c.cacheKey(domain.EndpointMSA, []byte("x"))
	b := c.cacheKey(domain.EndpointStructure, []byte("x"))
	d := c.cacheKey(domain.EndpointMSA, []byte("y"))
	if a == b || a == d {
		t.Errorf("keys collide: %q %q %q", a, b, d)
	}
}

func TestPost_FailuresAreNotCached(t *testing.T) {
	inner := &mockPoster{resp: domain.Response{StatusCode: 500, Body: []byte("internal error")}}
	kv := newMockKVStore()
	c := New(inner, kv, time.Hour, nil, zap.NewNop())

	for i := 0; i < 2; i++ {
		resp, err := c.Post(context.Background(), domain.EndpointMSA, []byte(`{}`))
		if err != nil {
			t.Fatalf("Post: %v", err)
		}
		if resp.StatusCode != 500 {
			t.Errorf("StatusCode = %d", resp.StatusCode)
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
	if len(kv.data) != 0 {
		t.Errorf("cache has %d entries, want 0", len(kv.data))
	}
}

func TestPost_TransportErrorPropagates(t *testing.T) {
	inner := &mockPoster{err: domain.NewTransportError(domain.EndpointMSA, errors.New("refused"))}
	kv := newMockKVStore()
	c := New(inner, kv, time.Hour, nil, zap.NewNop())

	_, err := c.Post(context.Background(), domain.EndpointMSA, []byte(`{}`))
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Error("expected *TransportError to survive wrapping")
	}
	if len(kv.data) != 0 {
		t.Error("transport errors must not be cached")
	}
}

func TestPost_StoreErrorsAreIgnored(t *testing.T) {
	inner := &mockPoster{resp: domain.Response{StatusCode: 200, Body: []byte(`{}`)}}
	kv := newMockKVStore()
	kv.getErr = errors.New("GET: connection reset")
	kv.setErr = errors.New("SET: OOM")
	c := New(inner, kv, time.Hour, nil, zap.NewNop())

	resp, err := c.Post(context.Background(), domain.EndpointMSA, []byte(`{}`))
	if err != nil {
		t.Fatalf("store failures must not fail the call: %v", err)
	}
	if resp.StatusCode != 200 || inner.calls != 1 {
		t.Errorf("resp = %+v, calls = %d", resp, inner.calls)
	}
}

func TestPost_CorruptEntryFallsThrough(t *testing.T) {
	inner := &mockPoster{resp: domain.Response{StatusCode: 200, Body: []byte(`{"fresh":true}`)}}
	kv := newMockKVStore()
	c := New(inner, kv, time.Hour, nil, zap.NewNop())

	body := []byte(`{}`)
	kv.data[c.cacheKey(domain.EndpointMSA, body)] = []byte{0x01}

	resp, err := c.Post(context.Background(), domain.EndpointMSA, body)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.Cached || inner.calls != 1 {
		t.Errorf("corrupt entry should be ignored, resp = %+v", resp)
	}
	if len(kv.dels) != 1 {
		t.Errorf("corrupt entry should be deleted, dels = %v", kv.dels)
	}
	if got, err := decodeEntry(kv.data[c.cacheKey(domain.EndpointMSA, body)]); err != nil || string(got.Body) != `{"fresh":true}` {
		t.Errorf("fresh response should replace the corrupt entry, got %+v, %v", got, err)
	}
}

func TestPost_UndecodableSuccessNotCached(t *testing.T) {
	inner := &mockPoster{resp: domain.Response{StatusCode: 200, Body: []byte("<html>proxy error</html>")}}
	kv := newMockKVStore()
	c := New(inner, kv, time.Hour, nil, zap.NewNop())
	body := []byte(`{"sequences":["AAA"]}`)

	if _, err := c.Post(context.Background(), domain.EndpointMSA, body); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if len(kv.data) != 0 {
		t.Fatalf("non-JSON 2xx body was cached")
	}

	// The service recovers: the next identical request must reach it.
	inner.resp = domain.Response{StatusCode: 200, Body: []byte(`{"ok":true}`)}
	resp, err := c.Post(context.Background(), domain.EndpointMSA, body)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.Cached || inner.calls != 2 || string(resp.Body) != `{"ok":true}` {
		t.Errorf("resp = %+v, calls = %d", resp, inner.calls)
	}
}

func TestPost_UndecodableEntryDeleted(t *testing.T) {
	inner := &mockPoster{resp: domain.Response{StatusCode: 200, Body: []byte(`{"ok":true}`)}}
	kv := newMockKVStore()
	c := New(inner, kv, time.Hour, nil, zap.NewNop())
	body := []byte(`{}`)
	key := c.cacheKey(domain.EndpointMSA, body)
	kv.data[key] = encodeEntry(domain.Response{StatusCode: 200, Body: []byte("<html>")})

	resp, err := c.Post(context.Background(), domain.EndpointMSA, body)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if resp.Cached || inner.calls != 1 {
		t.Errorf("undecodable entry must not be served, resp = %+v", resp)
	}
	if len(kv.dels) != 1 || kv.dels[0] != key {
		t.Errorf("dels = %v, want [%s]", kv.dels, key)
	}
}

func TestPost_ScopeSeparatesServices(t *testing.T) {
	kv := newMockKVStore()
	innerA := &mockPoster{resp: domain.Response{StatusCode: 200, Body: []byte(`{"model":"a"}`)}}
	innerB := &mockPoster{resp: domain.Response{StatusCode: 200, Body: []byte(`{"model":"b"}`)}}
	a := New(innerA, kv, time.Hour, nil, nil).WithScope("http://gpu-a:8000")
	b := New(innerB, kv, time.Hour, nil, nil).WithScope("http://gpu-b:8000")
	body := []byte(`{"sequences":["AAA"]}`)

	if _, err := a.Post(context.Background(), domain.EndpointMSA, body); err != nil {
		t.Fatalf("a.Post: %v", err)
	}
	resp, err := b.Post(context.Background(), domain.EndpointMSA, body)
	if err != nil {
		t.Fatalf("b.Post: %v", err)
	}
	if resp.Cached || string(resp.Body) != `{"model":"b"}` || innerB.calls != 1 {
		t.Errorf("scope b served scope a's entry: %+v", resp)
	}
	if len(kv.data) != 2 {
		t.Errorf("entries = %d, want 2", len(kv.data))
	}
}

func TestEntryEncoding(t *testing.T) {
	resp := domain.Response{StatusCode: 201, Body: []byte(`{"a":1}`)}
	got, err := decodeEntry(encodeEntry(resp))
	if err != nil {
		t.Fatalf("decodeEntry: %v", err)
	}
	if got.StatusCode != 201 || string(got.Body) != `{"a":1}` || !got.Cached {
		t.Errorf("decoded = %+v", got)
	}

	if _, err := decodeEntry(encodeEntry(domain.Response{StatusCode: 404})); err == nil {
		t.Error("expected non-2xx entry to be rejected")
	}
	if _, err := decodeEntry(encodeEntry(domain.Response{StatusCode: 200, Body: []byte("oops")})); err == nil {
		t.Error("expected non-JSON entry to be rejected")
	}
}
