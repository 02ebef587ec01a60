package store

import (
	"context"
	"sync"
)

// Blob keys for the three persisted collections.
const (
	KeyLeads    = "leads"
	KeyHistory  = "history"
	KeySettings = "settings"
)

// Blobs is a durable keyed byte store. Get returns nil, nil for a key that
// was never written.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Migrate(ctx context.Context) error
	Close() error
}

// MemoryBlobs keeps blobs in process memory. Used by tests and the
// "memory" store driver.
type MemoryBlobs struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBlobs creates an empty MemoryBlobs.
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{data: make(map[string][]byte)}
}

func (m *MemoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBlobs) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBlobs) Migrate(context.Context) error { return nil }

func (m *MemoryBlobs) Close() error { return nil }
