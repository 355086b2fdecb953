package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemorySlot keeps serialized carts in a mutex-guarded map. Used in tests
// and single-node development. Entries go through JSON like the real
// adapters so corrupt-payload handling is exercised the same way.
type MemorySlot struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{entries: make(map[string][]byte)}
}

func (m *MemorySlot) Load(_ context.Context, owner string) ([]Line, error) {
	m.mu.RLock()
	data, ok := m.entries[owner]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return lines, nil
}

func (m *MemorySlot) Save(_ context.Context, owner string, lines []Line) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	m.mu.Lock()
	m.entries[owner] = data
	m.mu.Unlock()
	return nil
}

func (m *MemorySlot) Clear(_ context.Context, owner string) error {
	m.mu.Lock()
	delete(m.entries, owner)
	m.mu.Unlock()
	return nil
}

// Has reports whether a slot entry exists for the owner.
func (m *MemorySlot) Has(owner string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[owner]
	return ok
}

// Corrupt overwrites the owner's entry with invalid JSON, for tests.
func (m *MemorySlot) Corrupt(owner string) {
	m.mu.Lock()
	m.entries[owner] = []byte("{not json")
	m.mu.Unlock()
}
