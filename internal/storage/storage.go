package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// KV is a namespaced key-value store. Writes are synchronous; the last write
// to a key wins.
type KV interface {
	Get(namespace, key string) (string, bool, error)
	Set(namespace, key, value string) error
	Delete(namespace, key string) error
	// Entries returns every key/value pair in the namespace.
	Entries(namespace string) (map[string]string, error)
	// Clear removes the whole namespace.
	Clear(namespace string) error
	Close() error
}

// Keys returns the sorted keys of a namespace.
func Keys(kv KV, namespace string) ([]string, error) {
	entries, err := kv.Entries(namespace)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// MemoryKV implements KV in memory.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]map[string]string{}}
}

func (m *MemoryKV) Get(namespace, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[namespace][key]
	return v, ok, nil
}

func (m *MemoryKV) Set(namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.data[namespace]
	if !ok {
		ns = map[string]string{}
		m.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (m *MemoryKV) Delete(namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[namespace], key)
	return nil
}

func (m *MemoryKV) Entries(namespace string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.data[namespace]))
	for k, v := range m.data[namespace] {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryKV) Clear(namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, namespace)
	return nil
}

func (m *MemoryKV) Close() error { return nil }

// JSONStorage implements KV using a single JSON file.
// The whole file is rewritten on every mutation.
type JSONStorage struct {
	path string
	mem  *MemoryKV
}

// NewJSONStorage opens the JSON file at path, loading it if it exists.
func NewJSONStorage(path string) (*JSONStorage, error) {
	s := &JSONStorage{path: path, mem: NewMemoryKV()}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.mem.data); err != nil {
			return nil, err
		}
	}
	// A file containing "null" leaves the map nil
	if s.mem.data == nil {
		s.mem.data = map[string]map[string]string{}
	}

	return s, nil
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

func (s *JSONStorage) Get(namespace, key string) (string, bool, error) {
	return s.mem.Get(namespace, key)
}

func (s *JSONStorage) Set(namespace, key, value string) error {
	_ = s.mem.Set(namespace, key, value)
	return s.save()
}

func (s *JSONStorage) Delete(namespace, key string) error {
	_ = s.mem.Delete(namespace, key)
	return s.save()
}

func (s *JSONStorage) Entries(namespace string) (map[string]string, error) {
	return s.mem.Entries(namespace)
}

func (s *JSONStorage) Clear(namespace string) error {
	_ = s.mem.Clear(namespace)
	return s.save()
}

func (s *JSONStorage) Close() error { return nil }

// save writes the file, creating the directory if it doesn't exist.
func (s *JSONStorage) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	s.mem.mu.RLock()
	data, err := json.MarshalIndent(s.mem.data, "", "  ")
	s.mem.mu.RUnlock()
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// Open opens the KV backend with the given name at path.
// An empty backend name selects SQLite.
func Open(backend, path string) (KV, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLiteStorage(path)
	case BackendJSON:
		return NewJSONStorage(path)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, &UnknownBackendError{Backend: backend}
	}
}

// UnknownBackendError is returned by Open for unsupported backend names.
type UnknownBackendError struct {
	Backend string
}

func (e *UnknownBackendError) Error() string {
	return "unknown storage backend: " + e.Backend
}

// DefaultDataDir returns ~/.config/tabscope.
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tabscope"), nil
}
