package favorites

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps favorites in a map. IDs are assigned like an
// autoincrement column and never reused.
type MemoryStore struct {
	mu     sync.Mutex
	rows   map[int64]Favorite
	lastID int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int64]Favorite)}
}

func (m *MemoryStore) Insert(_ context.Context, f Favorite) (Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.ID == 0 {
		m.lastID++
		f.ID = m.lastID
	} else if f.ID > m.lastID {
		m.lastID = f.ID
	}
	m.rows[f.ID] = f
	return f, nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound.WithContext("id", id)
	}
	delete(m.rows, id)
	return nil
}

func (m *MemoryStore) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[int64]Favorite)
	return nil
}

func (m *MemoryStore) List(context.Context) ([]Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Favorite, 0, len(m.rows))
	for _, f := range m.rows {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
