package scanner

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-yaml"

	"github.com/shopfloor/jobsync/pkg/errors"
)

// Signature identifies one observed state of a manifest file. A cache
// entry is valid only while the file's signature matches.
type Signature struct {
	ModTime  int64  `yaml:"mtime"`
	Size     int64  `yaml:"size"`
	Checksum string `yaml:"checksum,omitempty"`
}

// String renders the signature for record provenance.
func (s Signature) String() string {
	if s.Checksum != "" {
		return fmt.Sprintf("%d:%d:%s", s.ModTime, s.Size, s.Checksum)
	}
	return fmt.Sprintf("%d:%d", s.ModTime, s.Size)
}

// checksum computes the content fingerprint used to rescue cache
// entries whose file was touched without changing.
func checksum(content []byte) string {
	digest := xxhash.New()
	_, _ = digest.Write(content)
	return hex.EncodeToString(digest.Sum(nil))
}

// entry is one cached parse result.
type entry struct {
	Signature Signature         `yaml:"signature"`
	Fields    map[string]string `yaml:"fields"`
}

// Cache holds parsed manifests keyed by file path, invalidated on
// signature mismatch. It persists across runs as a YAML file so
// unchanged manifests are never re-parsed.
type Cache struct {
	path    string
	entries map[string]entry
}

// NewCache creates an empty in-memory cache. Save is a no-op unless the
// cache was loaded from a file.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// LoadCache reads a persisted cache from path. A missing, empty, or
// corrupt cache file degrades to an empty cache; it never fails the run.
func LoadCache(path string) *Cache {
	c := &Cache{path: path, entries: make(map[string]entry)}

	content, err := os.ReadFile(path)
	if err != nil || len(content) == 0 {
		return c
	}
	if err := yaml.Unmarshal(content, &c.entries); err != nil {
		c.entries = make(map[string]entry)
	}
	return c
}

// Save writes the cache back to its file atomically. Caches created
// without a file path are memory-only and Save does nothing.
func (c *Cache) Save() error {
	if c.path == "" {
		return nil
	}

	content, err := yaml.Marshal(c.entries)
	if err != nil {
		return errors.WrapParse("yaml", c.path, err)
	}

	tmp := c.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return errors.WrapIO("write", c.path, err)
	}
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return errors.WrapIO("write", c.path, err)
	}
	return nil
}

// Len returns the number of cached manifests.
func (c *Cache) Len() int {
	return len(c.entries)
}

// lookup returns the cached fields for path when the signature's
// mtime+size match exactly.
func (c *Cache) lookup(path string, sig Signature) (map[string]string, Signature, bool) {
	e, ok := c.entries[path]
	if !ok {
		return nil, Signature{}, false
	}
	if e.Signature.ModTime != sig.ModTime || e.Signature.Size != sig.Size {
		return nil, Signature{}, false
	}
	return e.Fields, e.Signature, true
}

// rescue returns the cached fields for path when the content checksum
// still matches even though mtime or size moved (a touch without a
// change). The stored signature is refreshed so the next run hits on
// mtime+size alone.
func (c *Cache) rescue(path string, sig Signature) (map[string]string, bool) {
	e, ok := c.entries[path]
	if !ok || e.Signature.Checksum == "" || e.Signature.Checksum != sig.Checksum {
		return nil, false
	}
	e.Signature = sig
	c.entries[path] = e
	return e.Fields, true
}

// store records a fresh parse result.
func (c *Cache) store(path string, sig Signature, fields map[string]string) {
	c.entries[path] = entry{Signature: sig, Fields: fields}
}
