// Package configvars reads and writes the external config vars the service
// is deployed with (the hosting platform's environment).
//
// Writing a config var may restart the whole process: the platform applies
// new config by replacing the running dyno. Callers must treat Set as the
// last statement of any operation; nothing required may follow it.
package configvars

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Keys owned by the core.
const (
	RCONIP          = "RCON_IP"
	BootRestoreWeek = "BOOT_RESTORE_WEEK"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("config var not found")

// Store is an external key/value config store.
type Store interface {
	// Get returns the value of key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set writes key=value. The process may be restarted as a side effect.
	Set(ctx context.Context, key, value string) error

	// All returns every config var.
	All(ctx context.Context) (map[string]string, error)
}

// MemoryStore is an in-process Store. It records every write in order.
type MemoryStore struct {
	mu     sync.Mutex
	vars   map[string]string
	writes []Write

	// Err, when set, is returned by Set without recording the write.
	Err error
}

// Write is one recorded Set call.
type Write struct {
	Key   string
	Value string
}

// NewMemoryStore returns a MemoryStore seeded with vars.
func NewMemoryStore(vars map[string]string) *MemoryStore {
	m := &MemoryStore{vars: make(map[string]string, len(vars))}
	for k, v := range vars {
		m.vars[k] = v
	}
	return m
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vars[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.vars == nil {
		m.vars = map[string]string{}
	}
	m.vars[key] = value
	m.writes = append(m.writes, Write{Key: key, Value: value})
	return nil
}

func (m *MemoryStore) All(_ context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.vars))
	for k, v := range m.vars {
		out[k] = v
	}
	return out, nil
}

// Writes returns the recorded Set calls in order.
func (m *MemoryStore) Writes() []Write {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Write(nil), m.writes...)
}

// SortedKeys returns the keys of vars in lexical order.
func SortedKeys(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
