package testkit

import (
	"encoding/json"
	"sync"
)

// MemStore is an in-memory localstore.Store for tests.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}}
}

func (m *MemStore) Get(key string, dest interface{}) bool {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (m *MemStore) Put(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// SetRaw plants a raw payload, bypassing JSON encoding. Tests use it to
// simulate corrupt persisted state.
func (m *MemStore) SetRaw(key string, raw []byte) {
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
}
