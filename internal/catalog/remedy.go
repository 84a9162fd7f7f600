package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Entry is the remedy guidance for one disease label.
type Entry struct {
	Label     string `json:"-"`
	Solution  string `json:"solution"`
	Pesticide string `json:"pesticide"`
}

// DefaultEntry is used when the catalog is absent or a label has no
// entry. It must never be empty.
func DefaultEntry(label string) Entry {
	return Entry{
		Label:     label,
		Solution:  "Use proper fertilizers and care.",
		Pesticide: "Apply recommended pesticide.",
	}
}

// Catalog maps disease labels to remedy entries. The catalog is
// optional data: a missing artifact or a missing label degrades to
// DefaultEntry, never to a failure. Entries can be hot-swapped by the
// watcher, hence the lock.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: map[string]Entry{}}
}

// LoadCatalog reads the remedy artifact at path. A missing file is not
// an error and yields an empty catalog; a present but malformed file
// is.
func LoadCatalog(path string) (*Catalog, error) {
	c := NewCatalog()

	entries, err := readEntries(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}

	c.Replace(entries)
	return c, nil
}

func readEntries(path string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid remedies JSON: %w", err)
	}

	return raw, nil
}

// Lookup returns the entry for label, falling back to DefaultEntry
// when the label is unknown. The second return reports whether the
// label was actually present.
func (c *Catalog) Lookup(label string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[label]
	if !ok {
		return DefaultEntry(label), false
	}

	entry.Label = label
	return entry, true
}

// Replace swaps the full entry set.
func (c *Catalog) Replace(entries map[string]Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = entries
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
