// Package file implements the small durable backend: a synchronous
// file-per-key store with a bounded entry count. It holds the payloads
// below the durable tier's size threshold.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/apexview/apexview-go/cache"
)

// ErrTooLarge is returned by Set when a single value exceeds the
// store's per-entry byte limit.
var ErrTooLarge = errors.New("filestore: value exceeds per-entry size limit")

const (
	// DefaultMaxEntries bounds the number of files the store keeps.
	// When full, the oldest entries are pruned to make room.
	DefaultMaxEntries = 256

	// DefaultMaxValueBytes caps a single payload. The durable router
	// only sends sub-threshold payloads here, so this is a backstop.
	DefaultMaxValueBytes = 256 * 1024

	ext = ".json"
)

// Store is the small synchronous backend.
type Store struct {
	mu            sync.Mutex
	dir           string
	maxEntries    int
	maxValueBytes int
}

type envelope struct {
	Key string `json:"key"`
	cache.Entry
}

// New creates the store rooted at dir, creating the directory if
// needed. maxEntries <= 0 selects DefaultMaxEntries.
func New(dir string, maxEntries int) (*Store, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create dir: %w", err)
	}
	return &Store{
		dir:           dir,
		maxEntries:    maxEntries,
		maxValueBytes: DefaultMaxValueBytes,
	}, nil
}

// Name implements cache.Backend.
func (s *Store) Name() string { return "durable-small" }

// fileName maps a cache key to a filename that is legal on every
// filesystem. The mapping is injective for the characters keys can
// contain, so prefix matching on filenames matches prefixes on keys.
func fileName(key string) string {
	return strings.ReplaceAll(key, ":", "_") + ext
}

// Get implements cache.Backend.
func (s *Store) Get(_ context.Context, key string) (*cache.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, fileName(key))
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("filestore: read %s: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Corrupt record: drop it so the next write starts clean.
		os.Remove(path)
		return nil, false, fmt.Errorf("filestore: corrupt record %s: %w", key, err)
	}
	e := env.Entry
	return &e, true, nil
}

// Set implements cache.Backend.
func (s *Store) Set(_ context.Context, key string, e *cache.Entry) error {
	if len(e.Data) > s.maxValueBytes {
		return fmt.Errorf("filestore: set %s: %w", key, ErrTooLarge)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.makeRoom(key); err != nil {
		return err
	}

	raw, err := json.Marshal(envelope{Key: key, Entry: *e})
	if err != nil {
		return fmt.Errorf("filestore: encode %s: %w", key, err)
	}
	path := filepath.Join(s.dir, fileName(key))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("filestore: write %s: %w", key, err)
	}
	return nil
}

// makeRoom prunes the oldest files until a write for key fits within
// the entry bound. Overwrites of an existing key never need room.
func (s *Store) makeRoom(key string) error {
	infos, err := s.list("")
	if err != nil {
		return err
	}
	if _, exists := infos[fileName(key)]; exists {
		return nil
	}
	over := len(infos) - s.maxEntries + 1
	if over <= 0 {
		return nil
	}

	type aged struct {
		name string
		mod  int64
	}
	byAge := make([]aged, 0, len(infos))
	for name, info := range infos {
		byAge = append(byAge, aged{name, info.ModTime().UnixNano()})
	}
	sort.Slice(byAge, func(i, j int) bool { return byAge[i].mod < byAge[j].mod })
	for i := 0; i < over && i < len(byAge); i++ {
		os.Remove(filepath.Join(s.dir, byAge[i].name))
	}
	return nil
}

// Remove implements cache.Backend.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(filepath.Join(s.dir, fileName(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("filestore: remove %s: %w", key, err)
	}
	return nil
}

// Clear implements cache.Backend.
func (s *Store) Clear(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	namePrefix := strings.ReplaceAll(prefix, ":", "_")
	infos, err := s.list(namePrefix)
	if err != nil {
		return err
	}
	for name := range infos {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("filestore: clear: %w", err)
		}
	}
	return nil
}

// Stats implements cache.Backend.
func (s *Store) Stats(_ context.Context) (cache.BackendStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos, err := s.list("")
	if err != nil {
		return cache.BackendStats{}, err
	}
	var out cache.BackendStats
	for _, info := range infos {
		out.Items++
		out.Bytes += info.Size()
		mod := info.ModTime()
		if out.Oldest.IsZero() || mod.Before(out.Oldest) {
			out.Oldest = mod
		}
		if mod.After(out.Newest) {
			out.Newest = mod
		}
	}
	return out, nil
}

// list returns the store's files keyed by filename, narrowed to a
// filename prefix when one is given.
func (s *Store) list(namePrefix string) (map[string]os.FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("filestore: list: %w", err)
	}
	out := make(map[string]os.FileInfo, len(entries))
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ext) {
			continue
		}
		if namePrefix != "" && !strings.HasPrefix(de.Name(), namePrefix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out[de.Name()] = info
	}
	return out, nil
}
