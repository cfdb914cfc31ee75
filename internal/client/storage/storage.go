// Package storage is the small key-value layer the session manager persists
// its state through. Keys are flat strings, values are strings; the session
// manager decides the encoding.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Keys the session manager owns.
const (
	KeyAuthToken    = "auth_token"
	KeyUserData     = "user_data"
	KeyLastActivity = "last_activity"
)

// Store is the persistence surface. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is an in-process Store. It backs tests and ephemeral sessions.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// File persists the map as JSON on every write so sessions survive a process
// restart. Writes go through a temp file and rename.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

func NewFile(path string) (*File, error) {
	f := &File{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &f.values); err != nil {
		// A corrupt state file is treated as empty rather than fatal;
		// the worst case is the user logs in again.
		f.values = make(map[string]string)
	}
	return f, nil
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.flush()
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return f.flush()
}

func (f *File) flush() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
