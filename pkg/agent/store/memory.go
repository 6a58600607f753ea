package store

import (
	"context"
	"sync"
)

// MemoryCarts is the default in-process cart ledger. A single mutex guards
// the map; tool handlers may run on arbitrary goroutines.
type MemoryCarts struct {
	mu    sync.Mutex
	carts map[string][]CartItem
}

func NewMemoryCarts() *MemoryCarts {
	return &MemoryCarts{carts: make(map[string][]CartItem)}
}

func (m *MemoryCarts) Append(_ context.Context, sessionID string, item CartItem) ([]CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = append(m.carts[sessionID], item)
	return snapshot(m.carts[sessionID]), nil
}

func (m *MemoryCarts) Items(_ context.Context, sessionID string) ([]CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.carts[sessionID]), nil
}

func (m *MemoryCarts) Drain(_ context.Context, sessionID string) ([]CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.carts[sessionID]
	delete(m.carts, sessionID)
	return snapshot(items), nil
}

func snapshot(items []CartItem) []CartItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}

// MemoryRequests is the default in-process request ledger.
type MemoryRequests struct {
	mu       sync.Mutex
	requests map[string]Request
}

func NewMemoryRequests() *MemoryRequests {
	return &MemoryRequests{requests: make(map[string]Request)}
}

func (m *MemoryRequests) Put(_ context.Context, req Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *MemoryRequests) Get(_ context.Context, id string) (Request, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	return req, ok, nil
}

func (m *MemoryRequests) SetStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return nil
	}
	req.Status = status
	m.requests[id] = req
	return nil
}
