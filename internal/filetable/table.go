// Package filetable provides an append-only registry that maps normalized
// file paths to compact integer identifiers. Graph edges reference these
// identifiers instead of strings.
package filetable

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// ErrUnknownFile is returned when resolving an identifier that was never interned.
var ErrUnknownFile = errors.New("unknown file identifier")

// FileID identifies an interned path. Identifiers are dense, start at zero and
// are stable for the lifetime of the Table.
type FileID int

// Table is a concurrency-safe, append-only path registry.
type Table struct {
	mu    sync.RWMutex
	paths []string
	ids   map[string]FileID
}

// New creates an empty Table.
func New() *Table {
	return &Table{ids: make(map[string]FileID)}
}

// Normalize returns the canonical form of path used as the table key.
func Normalize(path string) string {
	return filepath.Clean(path)
}

// Intern returns the identifier of path, appending a new entry the first time
// the normalized path is seen.
func (t *Table) Intern(path string) FileID {
	p := Normalize(path)

	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.ids[p]; ok {
		return id
	}
	id := FileID(len(t.paths))
	t.paths = append(t.paths, p)
	t.ids[p] = id
	return id
}

// Lookup reports the identifier of path without interning it.
func (t *Table) Lookup(path string) (FileID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.ids[Normalize(path)]
	return id, ok
}

// Resolve returns the normalized path interned under id.
func (t *Table) Resolve(id FileID) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id < 0 || int(id) >= len(t.paths) {
		return "", fmt.Errorf("%w: %d (table has %d entries)", ErrUnknownFile, id, len(t.paths))
	}
	return t.paths[id], nil
}

// ResolveAll resolves every identifier in ids, preserving order.
func (t *Table) ResolveAll(ids []FileID) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		p, err := t.Resolve(id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Len returns the number of interned paths.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.paths)
}
