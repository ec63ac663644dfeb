package store

import (
	"context"
	"sync"
)

// Memory is an in-process backend. FailWrites, when set, is returned by
// every Write.
type Memory struct {
	mu         sync.Mutex
	data       map[string][]byte
	FailWrites error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Close() error { return nil }

// Unavailable stands in when no durable medium exists: nothing is ever
// found and writes are dropped.
type Unavailable struct{}

func (Unavailable) Read(context.Context, string) ([]byte, error) { return nil, ErrNotFound }

func (Unavailable) Write(context.Context, string, []byte) error { return nil }

func (Unavailable) Close() error { return nil }
