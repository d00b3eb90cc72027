package docstore

import (
	"context"
	"maps"
	"sync"
)

// memoryStore keeps collections in process memory.
type memoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
	closed      bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() Store {
	return &memoryStore{collections: make(map[string][]Document)}
}

func (m *memoryStore) Find(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	docs := m.collections[collection]
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = maps.Clone(d)
	}
	return out, nil
}

func (m *memoryStore) FindOne(ctx context.Context, collection string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	docs := m.collections[collection]
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return maps.Clone(docs[0]), nil
}

func (m *memoryStore) Insert(ctx context.Context, collection string, docs ...Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	for _, d := range docs {
		m.collections[collection] = append(m.collections[collection], maps.Clone(d))
	}
	return nil
}

func (m *memoryStore) Count(ctx context.Context, collection string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, ErrClosed
	}
	return len(m.collections[collection]), nil
}

func (m *memoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return ctx.Err()
}

func (m *memoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.collections = nil
	return nil
}
