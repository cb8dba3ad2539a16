package respcache

import (
	"context"
	"time"

	"github.com/kailas-cloud/foldcall/internal/db"
	"github.com/kailas-cloud/foldcall/internal/domain"
)

type mockPoster struct {
	resp  domain.Response
	err   error
	calls int
}

func (m *mockPoster) Post(_ context.Context, _ domain.Endpoint, _ []byte) (domain.Response, error) {
	m.calls++
	return m.resp, m.err
}

// mockKVStore is an in-memory store with optional failure hooks.
type mockKVStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
	dels   []string
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockKVStore) Del(_ context.Context, key string) error {
	m.dels = append(m.dels, key)
	delete(m.data, key)
	delete(m.ttls, key)
	return nil
}
