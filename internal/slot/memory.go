package slot

import (
	"context"
	"sync"
)

// Memory is a process-local slot. Contents are lost when the process exits.
type Memory struct {
	mu    sync.RWMutex
	data  []byte
	set   bool
	fails error
}

// NewMemory returns an empty in-memory slot.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith returns a slot already holding data.
func NewMemoryWith(data []byte) *Memory {
	m := &Memory{}
	m.data = append([]byte(nil), data...)
	m.set = true
	return m
}

// Read returns a copy of the stored bytes.
func (m *Memory) Read(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.set {
		return nil, ErrEmpty
	}
	return append([]byte(nil), m.data...), nil
}

// Write stores a copy of data, or returns the injected failure.
func (m *Memory) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fails != nil {
		return m.fails
	}
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

// FailWrites makes every later Write return err. Pass nil to recover.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails = err
}
