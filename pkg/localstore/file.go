package localstore

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one JSON document per key under a root directory.
type FileStore struct {
	root string
	mu   sync.RWMutex
}

// OpenFile creates (if needed) root and returns a FileStore over it.
func OpenFile(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: create root: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Get(key string, dest interface{}) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	// Corrupt payloads count as a miss; the caller starts fresh.
	return json.Unmarshal(raw, dest) == nil
}

func (s *FileStore) Put(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("localstore: marshal %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("localstore: write %q: %w", key, err)
	}
	return os.Rename(tmp, s.path(key))
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("localstore: delete %q: %w", key, err)
	}
	return nil
}

// path maps a namespaced key to a filename. Safe characters pass through;
// anything else is hex-escaped so keys like "trancend:cart:<id>" stay
// readable on disk.
func (s *FileStore) path(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteString("%" + hex.EncodeToString([]byte(string(r))))
		}
	}
	return filepath.Join(s.root, b.String()+".json")
}
