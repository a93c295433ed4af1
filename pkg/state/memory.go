// pkg/state/memory.go
package state

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

type memEntry struct {
	value     string
	expiresAt time.Time
}

type memStore struct {
	mu    sync.Mutex
	items map[string]memEntry
	now   func() time.Time
}

// NewMemoryStore returns an in-memory state store. Suitable for a single
// process; bindings are lost on restart, which only forces a re-install.
func NewMemoryStore() Store {
	return &memStore{items: map[string]memEntry{}, now: time.Now}
}

func (m *memStore) Save(ctx context.Context, shop, state string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[shop] = memEntry{value: state, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *memStore) Consume(ctx context.Context, shop, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.items[shop]
	if !ok {
		return ErrNotFound
	}
	if m.now().After(e.expiresAt) {
		delete(m.items, shop)
		return ErrNotFound
	}
	if subtle.ConstantTimeCompare([]byte(e.value), []byte(state)) != 1 {
		return ErrMismatch
	}
	delete(m.items, shop)
	return nil
}
