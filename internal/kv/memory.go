package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It is durable only for the life of the
// process and is used by tests and ephemeral sessions.
type Memory struct {
	mu     sync.Mutex
	values map[string][]byte
	writes int
	closed bool

	// FailWrites makes Set and Delete return this error when non-nil.
	FailWrites error
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte{}, v...), nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.values[key] = append([]byte{}, value...)
	m.writes++
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.FailWrites != nil {
		return m.FailWrites
	}
	delete(m.values, key)
	m.writes++
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Writes returns how many successful Set and Delete calls were applied.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
