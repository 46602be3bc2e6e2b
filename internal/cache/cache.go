// Package cache skips redundant WASM rebuilds in the dev server by
// fingerprinting the source tree. A rebuild runs only when the combined
// content hash of the watched files changed since the last successful
// build.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Cache persists build fingerprints under a cache directory.
type Cache struct {
	mu    sync.Mutex
	dir   string
	index map[string]entry
}

type entry struct {
	Hash    string    `json:"hash"`
	Updated time.Time `json:"updated"`
}

const indexFile = "index.json"

// New opens (or creates) a cache rooted at dir. An empty dir defaults
// to $HOME/.cache/inkview.
func New(dir string) (*Cache, error) {
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache", "inkview")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	c := &Cache{dir: dir, index: make(map[string]entry)}
	c.loadIndex()
	return c, nil
}

// HashTree fingerprints every file under root whose extension is in
// exts, in a stable order. Hidden directories and build outputs are
// skipped.
func HashTree(root string, exts ...string) (string, error) {
	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[e] = true
	}

	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "dist") {
				return filepath.SkipDir
			}
			return nil
		}
		if extSet[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(files)

	h := sha256.New()
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		fmt.Fprintln(h, path)
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fresh reports whether key was last built from exactly this hash.
func (c *Cache) Fresh(key, hash string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.index[key]
	return ok && e.Hash == hash
}

// Store records that key was successfully built from hash.
func (c *Cache) Store(key, hash string) error {
	c.mu.Lock()
	c.index[key] = entry{Hash: hash, Updated: time.Now()}
	c.mu.Unlock()
	return c.saveIndex()
}

// Invalidate forgets a key so the next build always runs.
func (c *Cache) Invalidate(key string) error {
	c.mu.Lock()
	delete(c.index, key)
	c.mu.Unlock()
	return c.saveIndex()
}

func (c *Cache) loadIndex() {
	data, err := os.ReadFile(filepath.Join(c.dir, indexFile))
	if err != nil {
		return
	}
	var idx map[string]entry
	if json.Unmarshal(data, &idx) == nil {
		c.index = idx
	}
}

func (c *Cache) saveIndex() error {
	c.mu.Lock()
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, indexFile), data, 0644)
}
