package kvstore

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process Store used by tests and the memory backend.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte

	// FailSaves makes every Save silently drop its document, mimicking a
	// full or unavailable backend.
	FailSaves bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: map[string][]byte{}}
}

func (m *Memory) Load(_ context.Context, key string, out any) bool {
	m.mu.RLock()
	raw, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

func (m *Memory) Save(_ context.Context, key string, value any) {
	if m.FailSaves {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.docs[key] = raw
	m.mu.Unlock()
}

// SeedRaw installs a raw document, bypassing marshalling. Tests use it to
// simulate corrupt persisted state.
func (m *Memory) SeedRaw(key string, raw []byte) {
	m.mu.Lock()
	m.docs[key] = raw
	m.mu.Unlock()
}

// Keys returns the persisted key set.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	return keys
}
