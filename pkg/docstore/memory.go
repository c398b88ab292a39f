package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps collections in process memory, in insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Document),
		now:         time.Now,
	}
}

func (m *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.collections[collection]
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = Document{ID: d.ID, Fields: copyFields(d.Fields)}
	}
	return out, nil
}

func (m *MemoryStore) Append(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc := Document{
		ID:     uuid.New().String(),
		Fields: resolveServerTimestamps(fields, m.now().UTC()),
	}

	m.mu.Lock()
	m.collections[collection] = append(m.collections[collection], doc)
	m.mu.Unlock()

	return doc.ID, nil
}

// Count reports how many documents a collection holds.
func (m *MemoryStore) Count(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func copyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
