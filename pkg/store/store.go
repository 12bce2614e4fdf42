// Package store is the durable per-user storage behind the persisted state
// keys (theme, language) and the blog feed cache. Each entry is one JSON
// file in the store directory, named by a hash of its key, holding the value
// together with its creation time and TTL. Writes are atomic via
// temp-file-then-rename.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// envelope is the on-disk JSON structure for one entry.
type envelope struct {
	Key     string          `json:"key"`
	Created int64           `json:"created"` // UnixMilli
	TTLNS   int64           `json:"ttl_ns"`  // 0 = no expiry
	Value   json.RawMessage `json:"value"`
}

// Store is a directory of JSON entries with TTL-based expiry. Safe for
// concurrent use, though the application only touches it from the update
// loop and short-lived fetch goroutines.
type Store struct {
	dir string
	mu  sync.Mutex
}

// Open creates the store directory if needed and returns a Store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string { return s.dir }

// Put stores value under key. A ttl of 0 means the entry never expires.
func (s *Store) Put(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: marshal value for %q: %w", key, err)
	}
	env := envelope{
		Key:     key,
		Created: time.Now().UnixMilli(),
		TTLNS:   int64(ttl),
		Value:   raw,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("store: marshal entry for %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := atomicWrite(s.path(key), data, s.dir); err != nil {
		return fmt.Errorf("store: write entry for %q: %w", key, err)
	}
	return nil
}

// Get reads the entry for key into out and reports its age. Returns ok=false
// if the entry is missing, unreadable, or past its TTL; expired and corrupt
// entries are removed on the way out.
func (s *Store) Get(key string, out any) (age time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.read(key)
	if err != nil {
		return 0, false
	}

	created := time.UnixMilli(env.Created)
	age = time.Since(created)
	if env.TTLNS > 0 && age > time.Duration(env.TTLNS) {
		_ = os.Remove(s.path(key))
		return 0, false
	}

	if out != nil {
		if err := json.Unmarshal(env.Value, out); err != nil {
			_ = os.Remove(s.path(key))
			return 0, false
		}
	}
	return age, true
}

// Fresh reports whether key exists, is unexpired, and was written within the
// given window. Used to suppress redundant network refetches.
func (s *Store) Fresh(key string, within time.Duration) bool {
	age, ok := s.Get(key, nil)
	return ok && age <= within
}

// Delete removes the entry for key. Missing entries are not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	return nil
}

// Clear removes every entry in the store directory.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("store: clear read dir: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".tmp-") {
			_ = os.Remove(filepath.Join(s.dir, name))
		}
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, hashKey(key)+".json")
}

func (s *Store) read(key string) (envelope, error) {
	var env envelope
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(data, &env); err != nil {
		_ = os.Remove(s.path(key))
		return env, err
	}
	return env, nil
}

// hashKey returns the first 16 hex characters of the SHA-256 hash of key,
// producing a deterministic, filesystem-safe file name for any key.
func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:8])
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte, tmpDir string) error {
	tmp, err := os.CreateTemp(tmpDir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	success = true
	return nil
}
