package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/moyoez/portal-gateway/storage"
)

// RecordStore is a persisted line log. With a positive maxEntries it is bounded:
// new lines are prepended (newest first) and lines past the bound are evicted from the tail.
// Without a bound it is append-only, newest line last.
type RecordStore struct {
	mu         sync.Mutex
	storage    storage.Storage
	name       string
	maxEntries int
}

// NewBoundedStore returns a newest-first store that keeps at most maxEntries lines.
func NewBoundedStore(s storage.Storage, name string, maxEntries int) *RecordStore {
	if maxEntries <= 0 {
		panic("store: bounded store needs a positive bound")
	}
	return &RecordStore{storage: s, name: name, maxEntries: maxEntries}
}

// NewAppendStore returns an unbounded, oldest-first store.
func NewAppendStore(s storage.Storage, name string) *RecordStore {
	return &RecordStore{storage: s, name: name}
}

// Bounded reports whether the store evicts.
func (r *RecordStore) Bounded() bool {
	return r.maxEntries > 0
}

// Append records one line. Line breaks inside line are the caller's concern.
func (r *RecordStore) Append(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.Bounded() {
		if err := r.storage.Append(r.name, []byte(line+"\n")); err != nil {
			return fmt.Errorf("failed to append to %s: %w", r.name, err)
		}
		return nil
	}

	existing, err := r.readLocked()
	if err != nil {
		return err
	}
	content := truncateLines(line+"\n"+existing, r.maxEntries)
	if err := r.storage.Write(r.name, []byte(content)); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.name, err)
	}
	return nil
}

// Raw returns the literal record content, empty when the record is absent.
func (r *RecordStore) Raw() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readLocked()
}

// ReadAll returns the stored lines in stored order, skipping blank ones.
func (r *RecordStore) ReadAll() ([]string, error) {
	raw, err := r.Raw()
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Len returns the number of stored lines.
func (r *RecordStore) Len() int {
	lines, err := r.ReadAll()
	if err != nil {
		return 0
	}
	return len(lines)
}

// Clear deletes the backing record. The next Append recreates it.
func (r *RecordStore) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.storage.Remove(r.name); err != nil {
		return fmt.Errorf("failed to remove %s: %w", r.name, err)
	}
	return nil
}

func (r *RecordStore) readLocked() (string, error) {
	data, err := r.storage.Read(r.name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", r.name, err)
	}
	return string(data), nil
}

// truncateLines cuts content right after the line break that ends line n.
// A final line without a break still counts as a line.
func truncateLines(content string, n int) string {
	count := 0
	for i := 0; i < len(content); i++ {
		if content[i] != '\n' {
			continue
		}
		count++
		if count == n {
			return content[:i+1]
		}
	}
	return content
}
