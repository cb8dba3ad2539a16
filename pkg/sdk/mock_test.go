package foldcall

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/foldcall/internal/db"
	"github.com/kailas-cloud/foldcall/internal/domain/outcome"
	"github.com/kailas-cloud/foldcall/internal/domain/prediction"
	healthuc "github.com/kailas-cloud/foldcall/internal/usecase/health"
)

// --- predictionUseCase mock ---

type mockPredictionUC struct {
	submitFn func(ctx context.Context, req prediction.Request) (outcome.Outcome, error)
}

func (m *mockPredictionUC) Submit(ctx context.Context, req prediction.Request) (outcome.Outcome, error) {
	return m.submitFn(ctx, req)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}

// --- db.Store mock ---

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	pingErr error
	closed  bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Ping(_ context.Context) error { return m.pingErr }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) Close() { m.closed = true }

func (m *memStore) WaitForReady(ctx context.Context, _ time.Duration) error { return m.Ping(ctx) }

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
