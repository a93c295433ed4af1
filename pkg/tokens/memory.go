// pkg/tokens/memory.go
package tokens

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memStore struct {
	mu    sync.RWMutex
	items map[string]Record
	now   func() time.Time
}

// NewMemoryStore returns an in-memory token store for dev and tests.
func NewMemoryStore() Store {
	return &memStore{items: map[string]Record{}, now: time.Now}
}

func (m *memStore) Put(ctx context.Context, shop, token, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[shop] = Record{Shop: shop, Token: token, Scope: scope, InstalledAt: m.now()}
	return nil
}

func (m *memStore) Get(ctx context.Context, shop string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.items[shop]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *memStore) List(ctx context.Context, shopFilter string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if shopFilter != "" {
		if rec, ok := m.items[shopFilter]; ok {
			return []Record{rec}, nil
		}
		return nil, nil
	}
	out := make([]Record, 0, len(m.items))
	for _, rec := range m.items {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Shop < out[j].Shop })
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, shop)
	return nil
}
