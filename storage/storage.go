package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Record names of the persisted layout. Records are addressed by name, not by path.
const (
	RecordConfig  = "config.txt"
	RecordLog     = "log.txt"
	RecordWall    = "wall.txt"
	RecordLanding = "landing.html"
)

// ErrNotExist is returned by Read when a record has never been written or was removed.
var ErrNotExist = fs.ErrNotExist

// Storage is durable key-blob storage. Implementations serialize nothing themselves,
// callers own the single-writer discipline per record.
type Storage interface {
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
	Append(name string, data []byte) error
	Remove(name string) error
	Exists(name string) bool
}

// Dir stores every record as a file directly under root.
type Dir struct {
	root string
}

var _ Storage = (*Dir)(nil)

// Mount prepares root for use and verifies it is writable.
// A failed mount is the only storage error that should stop the device.
func Mount(root string) (*Dir, error) {
	if root == "" {
		return nil, errors.New("storage root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat storage root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage root is not a directory: %s", root)
	}
	probe, err := os.CreateTemp(root, ".mount-*")
	if err != nil {
		return nil, fmt.Errorf("storage root is not writable: %w", err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return &Dir{root: root}, nil
}

// Root returns the mounted directory.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid record name %q", name)
	}
	return filepath.Join(d.root, name), nil
}

func (d *Dir) Read(name string) ([]byte, error) {
	p, err := d.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// Write replaces the record atomically (temp file in the same directory, then rename).
func (d *Dir) Write(name string, data []byte) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.root, ".rec-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	ok := false
	defer func() {
		_ = tmp.Close()
		if !ok {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmpName, 0o644)

	if err := os.Rename(tmpName, p); err != nil {
		return err
	}
	ok = true
	return nil
}

// Append adds data to the end of the record, creating it if needed.
func (d *Dir) Append(name string, data []byte) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Remove deletes the record. Removing a missing record is not an error.
func (d *Dir) Remove(name string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (d *Dir) Exists(name string) bool {
	p, err := d.path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
