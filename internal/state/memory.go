package state

import (
	"context"
	"sync"
)

func init() {
	RegisterFactory("memory", func(Options) (Store, error) {
		return NewMemoryStore(), nil
	})
}

// MemoryStore keeps the document in process memory. It backs tests and
// throwaway runs; every deployment uses sqlite or redis.
type MemoryStore struct {
	mu    sync.Mutex
	doc   State
	isSet bool

	// Err, when set, is returned by every operation. Tests use it to
	// simulate an unavailable backend.
	Err error

	// Saves counts successful Save calls.
	Saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if !m.isSet {
		return Default(), nil
	}
	return m.doc.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.doc = st.Clone()
	m.isSet = true
	m.Saves++
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.doc = nil
	m.isSet = false
	return nil
}

func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}
