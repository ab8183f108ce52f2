// Package store provides the persisted key-value storage used for state that
// must survive between sessions.
package store

import "sync"

// KV is a small persisted key-value store.
type KV interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
}

// Memory is an in-process KV. Nothing is persisted.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}
