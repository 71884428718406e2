package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps carts in process. It backs single-instance deployments
// without Redis and the handler tests.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]Cart)}
}

func (m *MemoryStore) Get(_ context.Context, session string) (Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[session], nil
}

func (m *MemoryStore) Update(_ context.Context, session string, fn func(Cart) Cart) (Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := fn(m.carts[session])
	if next.Empty() {
		delete(m.carts, session)
		return next, nil
	}
	m.carts[session] = next
	return next, nil
}

func (m *MemoryStore) Clear(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, session)
	return nil
}
