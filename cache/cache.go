// Package cache implements the persistent translation cache — a flat
// mapping from normalized source text to translated text, stored as a
// JSON file that survives across files and sessions.
//
// The cache is an optimization, never a source of truth: a missing or
// corrupt cache file degrades to an empty cache, and I/O failures are
// reported through a warn callback instead of failing the translation
// run. Entries are never evicted. Writes are flushed to disk on every
// tenth insertion and on demand via Flush.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// WarnFunc receives non-fatal cache I/O problems for logging.
type WarnFunc func(format string, args ...any)

// Cache is a process-wide translation memory. Safe for concurrent use
// by interleaved batch runs; a lost update on crash is acceptable.
type Cache struct {
	mu      sync.Mutex
	entries map[string]string
	path    string
	warn    WarnFunc
}

// flushInterval is the insertion count between automatic disk flushes.
const flushInterval = 10

// Normalize produces the cache key for a piece of source text.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Load reads the cache file at path. A missing or unreadable file yields
// an empty cache; Load never fails.
func Load(path string, warn WarnFunc) *Cache {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	c := &Cache{
		entries: make(map[string]string),
		path:    path,
		warn:    warn,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			warn("reading translation cache %s: %v", path, err)
		}
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		warn("parsing translation cache %s: %v (starting empty)", path, err)
		c.entries = make(map[string]string)
	}
	return c
}

// Get looks up the translation for text. A miss returns ok == false,
// never an error.
func (c *Cache) Get(text string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[Normalize(text)]
	return v, ok
}

// Set stores a translation for text and flushes to disk on every tenth
// insertion.
func (c *Cache) Set(text, translation string) {
	c.mu.Lock()
	c.entries[Normalize(text)] = translation
	needFlush := len(c.entries)%flushInterval == 0
	c.mu.Unlock()

	if needFlush {
		if err := c.Flush(); err != nil {
			c.warn("%v", err)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Flush writes the cache to disk, creating the parent directory when
// needed.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling translation cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("writing translation cache %s: %w", c.path, err)
	}
	return nil
}

// Clear drops all entries and removes the cache file.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]string)
	if c.path == "" {
		return nil
	}
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing translation cache %s: %w", c.path, err)
	}
	return nil
}

// Path returns the backing file path.
func (c *Cache) Path() string { return c.path }
