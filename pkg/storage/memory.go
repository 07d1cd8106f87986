package storage

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore keeps everything in process memory. It backs tests and the
// "memory" storage backend.
type MemoryStore struct {
	mu         sync.RWMutex
	data       map[string]map[string]string
	pingError  error
	clearError error
	closed     bool
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]string)}
}

// SetPingError makes Ping fail with err. Pass nil to restore.
func (m *MemoryStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetClearError makes Clear fail with err. Pass nil to restore.
func (m *MemoryStore) SetClearError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearError = err
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return m.pingError
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[namespace][key]
	return v, ok, nil
}

func (m *MemoryStore) Put(ctx context.Context, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string]string)
		m.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (m *MemoryStore) HasKey(ctx context.Context, namespace, key string) (bool, error) {
	_, ok, err := m.Get(ctx, namespace, key)
	return ok, err
}

func (m *MemoryStore) Clear(ctx context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.clearError != nil {
		return m.clearError
	}
	delete(m.data, namespace)
	return nil
}

// Dump copies one namespace. Intended for tests and debugging.
func (m *MemoryStore) Dump(namespace string) map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.data[namespace])
}

// Len counts keys across all namespaces.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, ns := range m.data {
		n += len(ns)
	}
	return n
}
