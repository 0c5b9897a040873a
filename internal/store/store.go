// Package store provides the durable key/value backends that hold the
// surface snapshot.
package store

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotFound = errors.New("store: key not found")
	ErrTooLarge = errors.New("store: value exceeds size limit")
	ErrBadKey   = errors.New("store: key cannot name a file")
)

// Store keeps one string value per key. Save overwrites.
type Store interface {
	Load(key string) (string, error)
	Save(key, value string) error
}

// Memory is a map-backed Store.
type Memory struct {
	values map[string]string
	mu     sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Load(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Limit wraps a Store and refuses to save values longer than MaxBytes.
// A MaxBytes of zero or less disables the check.
type Limit struct {
	Store
	MaxBytes int
}

func (l Limit) Save(key, value string) error {
	if l.MaxBytes > 0 && len(value) > l.MaxBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, len(value), l.MaxBytes)
	}
	return l.Store.Save(key, value)
}
