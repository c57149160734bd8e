package internal

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/filacheck/filacheck/internal/types"
)

const (
	cacheFileName      = "filacheck_cache.gob"
	defaultCacheMaxAge = 24 * time.Hour
)

// fileStamp identifies one version of a checked file.
type fileStamp struct {
	Size    int64
	ModTime time.Time
	Hash    string
}

type cacheEntry struct {
	Stamp      fileStamp
	Violations []tt.Violation
	Stored     time.Time
}

// cacheFile is the on-disk layout of the cache. Key covers the
// fingerprint and the dependency files the entries were computed with.
type cacheFile struct {
	Key     string
	Entries map[string]cacheEntry
}

// Cache keeps the violations of files between runs. Entries are keyed by
// absolute path and dropped as soon as the file, a dependency file or the
// fingerprint changes.
type Cache struct {
	dir          string
	dependencies []string
	fingerprint  string
	maxAge       time.Duration

	mu      sync.Mutex
	key     string
	entries map[string]cacheEntry
	dirty   bool
}

type CacheOption func(*Cache)

// WithDependencies invalidates the whole cache when any of files changes.
// A missing file counts as empty.
func WithDependencies(files ...string) CacheOption {
	return func(c *Cache) {
		c.dependencies = append(c.dependencies, files...)
	}
}

// WithFingerprint invalidates the whole cache when s differs from the
// value the cache was saved with, typically the list of active rules.
func WithFingerprint(s string) CacheOption {
	return func(c *Cache) {
		c.fingerprint = s
	}
}

// WithMaxAge sets how long an entry stays valid. The default is one day.
func WithMaxAge(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.maxAge = d
	}
}

// NewCache opens the cache stored in dir, creating dir when needed.
func NewCache(dir string, opts ...CacheOption) (*Cache, error) {
	c := &Cache{
		dir:     dir,
		maxAge:  defaultCacheMaxAge,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	key, err := c.computeKey()
	if err != nil {
		return nil, err
	}
	c.key = key

	stored, err := c.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	switch {
	case stored == nil:
	case stored.Key != key:
		c.dirty = true
	default:
		c.entries = stored.Entries
	}
	return c, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.dir, cacheFileName)
}

// computeKey hashes the fingerprint and the content of every dependency.
func (c *Cache) computeKey() (string, error) {
	h := sha256.New()
	io.WriteString(h, c.fingerprint)
	for _, dep := range c.dependencies {
		io.WriteString(h, "\x00"+dep+"\x00")
		sum, err := hashFile(dep)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to hash %s: %w", dep, err)
		}
		io.WriteString(h, sum)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *Cache) load() (*cacheFile, error) {
	f, err := os.Open(c.path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var stored cacheFile
	if err := gob.NewDecoder(f).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.path(), err)
	}
	if stored.Entries == nil {
		stored.Entries = make(map[string]cacheEntry)
	}
	return &stored, nil
}

// Save writes the cache when it changed since it was opened. Expired
// entries are not written.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	for name, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, name)
		}
	}

	tmp, err := os.CreateTemp(c.dir, cacheFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(cacheFile{Key: c.key, Entries: c.entries}); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), c.path()); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	c.dirty = false
	return nil
}

// Set stores the violations of the file at filename as it is now on disk.
func (c *Cache) Set(filename string, violations []tt.Violation) error {
	key, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	stamp, err := stampFile(key)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{Stamp: stamp, Violations: violations, Stored: time.Now()}
	c.dirty = true
	return nil
}

// Get returns the stored violations of filename when the file did not
// change since they were stored. A file whose size and modification time
// are unchanged is not read again.
func (c *Cache) Get(filename string) ([]tt.Violation, bool) {
	key, err := filepath.Abs(filename)
	if err != nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.expired(entry) || !c.revalidate(key, &entry) {
		delete(c.entries, key)
		c.dirty = true
		return nil, false
	}
	return entry.Violations, true
}

// revalidate reports whether the file still matches entry. A touched file
// with unchanged content refreshes the entry.
func (c *Cache) revalidate(key string, entry *cacheEntry) bool {
	info, err := os.Stat(key)
	if err != nil || info.Size() != entry.Stamp.Size {
		return false
	}
	if info.ModTime().Equal(entry.Stamp.ModTime) {
		return true
	}

	sum, err := hashFile(key)
	if err != nil || sum != entry.Stamp.Hash {
		return false
	}
	entry.Stamp.ModTime = info.ModTime()
	c.entries[key] = *entry
	c.dirty = true
	return true
}

func (c *Cache) expired(entry cacheEntry) bool {
	return time.Since(entry.Stored) > c.maxAge
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
	c.dirty = true
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func stampFile(filename string) (fileStamp, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return fileStamp{}, err
	}
	sum, err := hashFile(filename)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{Size: info.Size(), ModTime: info.ModTime(), Hash: sum}, nil
}

func hashFile(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
