package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	cacheFileExtension = ".json"
	bytesPerMB         = 1 << 20
)

// Common cache errors.
var (
	ErrCacheNotFound     = errors.New("cache entry not found")
	ErrCacheExpired      = errors.New("cache entry expired")
	ErrCacheIncompatible = errors.New("cache entry written by an incompatible version")
	ErrInvalidCacheKey   = errors.New("cache key cannot be empty")
	ErrCacheDisabled     = errors.New("cache is disabled")
)

// Options configures a FileStore.
type Options struct {
	Directory  string
	Enabled    bool
	TTLSeconds int

	// MaxSizeMB caps the directory size; 0 means unlimited.
	MaxSizeMB int

	// Version is stamped on written entries and checked on reads.
	Version string
}

// Stats describes the contents of a store.
type Stats struct {
	Directory string        `json:"directory"`
	Entries   int           `json:"entries"`
	Expired   int           `json:"expired"`
	Bytes     int64         `json:"bytes"`
	TTL       time.Duration `json:"ttl"`
}

// FileStore keeps one JSON file per entry in a directory. It is safe for
// concurrent use within a process.
type FileStore struct {
	opts Options
	mu   sync.RWMutex
}

// NewFileStore creates the store, creating its directory when enabled. A
// disabled store answers every call with ErrCacheDisabled.
func NewFileStore(opts Options) (*FileStore, error) {
	if !opts.Enabled {
		return &FileStore{opts: Options{Enabled: false}}, nil
	}
	if opts.Directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if _, err := NewTTLConfig(opts.TTLSeconds); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.Directory, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{opts: opts}, nil
}

// IsEnabled reports whether the store reads and writes entries.
func (s *FileStore) IsEnabled() bool {
	return s.opts.Enabled
}

// Directory returns the cache directory.
func (s *FileStore) Directory() string {
	return s.opts.Directory
}

// Get returns the entry stored under key. Expired and incompatible entries
// are removed and reported as ErrCacheExpired or ErrCacheIncompatible.
func (s *FileStore) Get(key string) (*Entry, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(key)
	entry, err := readEntry(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCacheNotFound
		}
		return nil, err
	}

	if entry.IsExpired() {
		_ = os.Remove(path)
		return nil, ErrCacheExpired
	}
	if !entry.CompatibleWith(s.opts.Version) {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %s", ErrCacheIncompatible, entry.Version)
	}
	return entry, nil
}

// Set writes data under key, replacing any existing entry, then evicts the
// oldest entries if the store exceeds its size ceiling.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if err := s.check(key); err != nil {
		return err
	}

	entry := NewEntry(key, s.opts.Version, data, s.opts.TTLSeconds)
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(key)
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, encoded, 0o600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	return s.evict(path)
}

// Delete removes the entry under key. Missing entries are not an error.
func (s *FileStore) Delete(key string) error {
	if err := s.check(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (s *FileStore) Clear() (int, error) {
	if !s.opts.Enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.files()
	if err != nil {
		return 0, err
	}
	for i, f := range files {
		if err = os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return i, fmt.Errorf("failed to remove cache file %s: %w", filepath.Base(f.path), err)
		}
	}
	return len(files), nil
}

// CleanupExpired removes expired or unreadable entries and returns how many
// were removed.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.opts.Enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.files()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range files {
		entry, readErr := readEntry(f.path)
		if readErr == nil && !entry.IsExpired() {
			continue
		}
		if os.Remove(f.path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats reports the number, expiry and total size of stored entries.
func (s *FileStore) Stats() (Stats, error) {
	if !s.opts.Enabled {
		return Stats{}, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.files()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		Directory: s.opts.Directory,
		Entries:   len(files),
		TTL:       time.Duration(s.opts.TTLSeconds) * time.Second,
	}
	for _, f := range files {
		stats.Bytes += f.size
		if entry, readErr := readEntry(f.path); readErr != nil || entry.IsExpired() {
			stats.Expired++
		}
	}
	return stats, nil
}

func (s *FileStore) check(key string) error {
	if !s.opts.Enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}
	return nil
}

// pathFor maps a key to a file name that cannot escape the directory.
func (s *FileStore) pathFor(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_").Replace(key)
	return filepath.Join(s.opts.Directory, safe+cacheFileExtension)
}

type cacheFile struct {
	path    string
	size    int64
	modTime time.Time
}

// files lists entry files, oldest first. Must be called with mu held.
func (s *FileStore) files() ([]cacheFile, error) {
	dirEntries, err := os.ReadDir(s.opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var files []cacheFile
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != cacheFileExtension {
			continue
		}
		info, infoErr := de.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, cacheFile{
			path:    filepath.Join(s.opts.Directory, de.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}

	slices.SortFunc(files, func(a, b cacheFile) int {
		return a.modTime.Compare(b.modTime)
	})
	return files, nil
}

// evict removes oldest entries other than keep until the directory fits
// under MaxSizeMB. Must be called with mu held.
func (s *FileStore) evict(keep string) error {
	if s.opts.MaxSizeMB <= 0 {
		return nil
	}

	files, err := s.files()
	if err != nil {
		return err
	}

	var total int64
	for _, f := range files {
		total += f.size
	}

	limit := int64(s.opts.MaxSizeMB) * bytesPerMB
	for _, f := range files {
		if total <= limit {
			break
		}
		if f.path == keep {
			continue
		}
		if err = os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to evict cache file: %w", err)
		}
		total -= f.size
	}
	return nil
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}
