// Copyright (c) 2025 mysqlsync
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores named MySQL connection strings in the OS credential store.
// Connection strings carry passwords, so they never go to the config file.
//
// On macOS the native security command is tried first; everywhere else the
// keyring library picks a platform backend. Names are tracked in an index item
// because not every backend can enumerate its keys.
package keychain

import (
	"encoding/json"
	"errors"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ErrNotFound is returned when no connection is saved under a name.
var ErrNotFound = errors.New("connection not found")

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "mysqlsync"

const (
	connPrefix = "conn:"
	indexKey   = "connections"
)

// secretStore is the minimal surface both backends provide.
type secretStore interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Manager provides thread-safe access to saved connections.
type Manager struct {
	mu    sync.RWMutex
	store secretStore
}

// NewManager opens the OS credential store.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		if backend, err := newSecurityBackend(); err == nil {
			return &Manager{store: backend}, nil
		}
		// fall through to keyring
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return NewManagerWithRing(ring), nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{store: ringStore{ring: ring}}
}

// GetManager returns the process-wide manager, retrying initialization after a failure.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

func openRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// pass needs: brew install pass
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowed = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowed,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
	}
	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

// ValidateName rejects names that cannot round-trip through the index.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("connection name is required")
	}
	if strings.ContainsAny(name, " \t\r\n@;") {
		return errors.New("connection name must not contain whitespace, '@' or ';'")
	}
	return nil
}

// SaveConnection stores conn under name, replacing any previous value.
func (m *Manager) SaveConnection(name, conn string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(connPrefix+name, conn); err != nil {
		return err
	}
	names, err := m.names()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return m.writeNames(append(names, name))
}

// LoadConnection returns the connection string saved under name.
func (m *Manager) LoadConnection(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.store.Get(connPrefix + name)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

// DeleteConnection removes name. Deleting an unknown name is not an error.
func (m *Manager) DeleteConnection(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(connPrefix + name); err != nil {
		return err
	}
	names, err := m.names()
	if err != nil {
		return err
	}
	kept := names[:0]
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	return m.writeNames(kept)
}

// ListConnections returns saved names in sorted order.
func (m *Manager) ListConnections() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names, err := m.names()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// ClearConnections removes every saved connection and the index.
func (m *Manager) ClearConnections() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	names, err := m.names()
	if err != nil {
		return err
	}
	for _, n := range names {
		_ = m.store.Delete(connPrefix + n)
	}
	return m.store.Delete(indexKey)
}

func (m *Manager) names() ([]string, error) {
	raw, err := m.store.Get(indexKey)
	if errors.Is(err, ErrNotFound) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (m *Manager) writeNames(names []string) error {
	if len(names) == 0 {
		return m.store.Delete(indexKey)
	}
	b, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return m.store.Set(indexKey, string(b))
}

// ringStore adapts keyring.Keyring to secretStore.
type ringStore struct {
	ring keyring.Keyring
}

func (r ringStore) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (r ringStore) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringStore) Delete(key string) error {
	err := r.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
