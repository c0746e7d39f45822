// Package cache is a file-backed TTL cache for extraction results, keyed by
// tool name, video id, and language. The server consults it before running the
// fallback chain so repeat requests skip the expensive extraction paths.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"yttranscript/internal/paths"
)

type entry struct {
	Content []byte    `json:"content"`
	Created time.Time `json:"created"`
	Expires time.Time `json:"expires"`
}

// Cache stores JSON payloads under a directory with per-entry expiry.
type Cache struct {
	dir string
	ttl time.Duration
}

// New creates a cache rooted at dir with the given TTL. An empty dir falls
// back to the default cache directory.
func New(dir string, ttl time.Duration) *Cache {
	if dir == "" {
		dir = paths.CacheDir()
	}
	return &Cache{dir: filepath.Join(dir, "results"), ttl: ttl}
}

// Get looks up a cached payload. Expired or unreadable entries are removed
// and reported as misses.
func (c *Cache) Get(tool, videoID, language string) ([]byte, bool) {
	path := c.entryPath(tool, videoID, language)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		_ = os.Remove(path)
		return nil, false
	}

	if time.Now().After(e.Expires) {
		_ = os.Remove(path)
		return nil, false
	}

	return e.Content, true
}

// Put stores a payload in the cache.
func (c *Cache) Put(tool, videoID, language string, content []byte) error {
	if err := paths.EnsureDir(c.dir); err != nil {
		return err
	}

	now := time.Now()
	e := entry{
		Content: content,
		Created: now,
		Expires: now.Add(c.ttl),
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return os.WriteFile(c.entryPath(tool, videoID, language), data, 0600)
}

func (c *Cache) entryPath(tool, videoID, language string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s", tool, videoID, language)
	key := hex.EncodeToString(h.Sum(nil))[:32]
	return filepath.Join(c.dir, key+".json")
}
