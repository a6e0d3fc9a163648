// Package overlay provides the persistence backends for the catalog overlay.
//
// Every backend stores one opaque string and knows nothing about its
// contents. The catalog package owns the format.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// FileStore keeps the overlay in a single file on disk.
type FileStore struct {
	path string
	now  func() time.Time

	// last is the content most recently read or written through this store.
	mu   sync.Mutex
	last string
	seen bool
}

// NewFileStore creates a file-backed overlay at path.
// The parent directory is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Path returns the overlay file location.
func (f *FileStore) Path() string {
	return f.path
}

// ReadBlob returns the file contents, or ok=false if the file does not exist.
func (f *FileStore) ReadBlob(ctx context.Context) (string, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read overlay %s: %w", f.path, err)
	}
	f.remember(string(data))
	return string(data), true, nil
}

// WriteBlob replaces the file atomically: a reader sees either the old
// overlay or the new one, never a partial write.
func (f *FileStore) WriteBlob(ctx context.Context, blob string) error {
	if err := writeAtomic(f.path, []byte(blob)); err != nil {
		return err
	}
	f.remember(blob)
	return nil
}

// Unchanged reports whether the file still holds what this store last read
// or wrote. A missing or unreadable file counts as changed.
func (f *FileStore) Unchanged() bool {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen && f.last == string(data)
}

func (f *FileStore) remember(blob string) {
	f.mu.Lock()
	f.last = blob
	f.seen = true
	f.mu.Unlock()
}

// QuarantineBlob saves a corrupt overlay next to the original as
// <name>.corrupt-<unix seconds>.
func (f *FileStore) QuarantineBlob(ctx context.Context, blob string) error {
	dest := f.path + ".corrupt-" + strconv.FormatInt(f.now().Unix(), 10)
	if err := writeAtomic(dest, []byte(blob)); err != nil {
		return fmt.Errorf("failed to quarantine overlay: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create overlay directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write overlay: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync overlay: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close overlay: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace overlay: %w", err)
	}
	return nil
}
