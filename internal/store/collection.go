package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorrupt is returned by Load when an existing file is not a JSON array
// of strings. The file is left untouched.
var ErrCorrupt = errors.New("collection file is corrupt")

// Collection is an ordered list of free-text entries backed by a JSON array
// file. It is owned by a single goroutine.
type Collection struct {
	path  string
	items []string
}

// Load reads the collection at path. A missing file is created holding an
// empty array.
func Load(path string) (*Collection, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure dir: %w", err)
		}
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		c := &Collection{path: path, items: []string{}}
		if err := c.Persist(); err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if items == nil {
		// "null" is valid JSON but not an array
		if !bytes.Equal(bytes.TrimSpace(data), []byte("[]")) {
			return nil, fmt.Errorf("%w: %s: not an array", ErrCorrupt, path)
		}
		items = []string{}
	}
	return &Collection{path: path, items: items}, nil
}

// Path returns the backing file.
func (c *Collection) Path() string { return c.path }

// Items returns a copy of the entries in insertion order.
func (c *Collection) Items() []string {
	return append([]string{}, c.items...)
}

func (c *Collection) Len() int { return len(c.items) }

// Append adds item in memory. Call Persist to write it out.
func (c *Collection) Append(item string) {
	c.items = append(c.items, item)
}

// Truncate drops every entry after the first n, undoing appends that could
// not be persisted.
func (c *Collection) Truncate(n int) {
	if n >= 0 && n < len(c.items) {
		c.items = c.items[:n]
	}
}

// Persist rewrites the whole file. The new content is written to a temporary
// file in the same directory and renamed over the old one.
func (c *Collection) Persist() error {
	data, err := json.MarshalIndent(c.items, "", "    ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), "."+filepath.Base(c.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
