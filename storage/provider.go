// Package storage holds the key/value providers sessions persist state
// through. Values are stored as JSON.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by providers used after Close.
var ErrClosed = errors.New("storage: provider closed")

// Provider stores JSON-encodable values by key.
type Provider interface {
	// Get decodes the value stored under key into dst. It reports false
	// when the key does not exist.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

// Memory is an in-process Provider for ephemeral sessions.
type Memory struct {
	entries map[string][]byte
	mu      sync.RWMutex
}

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// Get implements Provider.
func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := decode(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set implements Provider.
func (m *Memory) Set(_ context.Context, key string, value any) error {
	raw, err := encode(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

// Remove implements Provider.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
