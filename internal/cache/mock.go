package cache

import (
	"context"
	"sync"
	"time"
)

// MockDedup provides an in-memory implementation for tests and for
// deployments without Redis.
type MockDedup struct {
	mu   sync.Mutex
	data map[string]struct{}
}

func NewMockDedup() *MockDedup {
	return &MockDedup{data: make(map[string]struct{})}
}

func (m *MockDedup) Close() error {
	return nil
}

func (m *MockDedup) IsAnalyzed(ctx context.Context, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.data[hash]
	return exists, nil
}

func (m *MockDedup) MarkAnalyzed(ctx context.Context, hash string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[hash] = struct{}{}
	return nil
}

func (m *MockDedup) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]struct{})
	return nil
}
