package store

import (
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory store for tests and configurations with no
// persistence path.
type Memory struct {
	mu   sync.RWMutex
	data map[string]*SavedExpression
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]*SavedExpression)}
}

// Get retrieves an expression by name.
func (m *Memory) Get(name string) (*SavedExpression, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if se, ok := m.data[name]; ok {
		cp := *se
		return &cp, nil
	}
	return nil, nil
}

// Put stores an expression by name, stamping the timestamps on the passed
// struct. An existing entry keeps its creation time.
func (m *Memory) Put(se *SavedExpression) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if prev, ok := m.data[se.Name]; ok {
		se.CreatedAt = prev.CreatedAt
	} else if se.CreatedAt.IsZero() {
		se.CreatedAt = now
	}
	se.UpdatedAt = now
	cp := *se
	m.data[se.Name] = &cp
	return nil
}

// Delete removes an expression by name.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

// List returns all saved expressions ordered by name.
func (m *Memory) List() ([]*SavedExpression, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*SavedExpression, 0, len(m.data))
	for _, se := range m.data {
		cp := *se
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Close is a no-op for the memory store.
func (m *Memory) Close() error {
	return nil
}
