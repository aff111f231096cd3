package cache

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// MemoryStore is an in-process Store. It counts calls so tests can assert
// which paths touched the cache.
type MemoryStore struct {
	mu     sync.RWMutex
	slots  map[recipes.Kind][]byte
	calls  MemoryCalls
	closed bool

	// WriteErr and ReadErr, when set, are returned instead of performing the operation.
	WriteErr error
	ReadErr  error
}

// MemoryCalls tracks method invocations for test verification.
type MemoryCalls struct {
	Write   int
	ReadAll int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[recipes.Kind][]byte)}
}

// Write stores a copy of payload.
func (m *MemoryStore) Write(_ context.Context, kind recipes.Kind, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Write++
	if m.closed {
		return ErrStoreClosed
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.slots[kind] = append([]byte(nil), payload...)
	return nil
}

// ReadAll returns a copy of the slot, or an empty slice.
func (m *MemoryStore) ReadAll(_ context.Context, kind recipes.Kind) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.ReadAll++
	if m.closed {
		return nil, ErrStoreClosed
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	payload, ok := m.slots[kind]
	if !ok {
		return [][]byte{}, nil
	}
	return [][]byte{append([]byte(nil), payload...)}, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls returns a snapshot of the call counters.
func (m *MemoryStore) Calls() MemoryCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// ResetCalls zeroes the call counters.
func (m *MemoryStore) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = MemoryCalls{}
}
