package store

import "sync"

// MemBackend keeps slots in a map. It is the injected fake used by tests
// and by callers that want a throwaway log.
type MemBackend struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewMemBackend() *MemBackend {
	return &MemBackend{slots: make(map[string][]byte)}
}

func (m *MemBackend) Load(slot string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (m *MemBackend) Save(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = append([]byte(nil), data...)
	return nil
}
