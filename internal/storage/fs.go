package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/sonar/internal/apperr"
)

// FS implements Provider backed by a directory on the local file system.
type FS struct {
	root string // absolute path to the namespace directory
}

// NewFS creates a new FS provider rooted at dir, creating it when missing.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute namespace directory.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves key against the root and rejects any result that
// escapes it (directory traversal).
func (f *FS) safePath(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage: empty key")
	}
	cleaned := filepath.Clean(key)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", key)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes root: %s", key)
	}
	return abs, nil
}

// Read returns the raw bytes stored under key.
func (f *FS) Read(key string) ([]byte, error) {
	abs, err := f.safePath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: read %s: %w", key, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

// Write atomically writes data: tmp file → fsync → rename.
func (f *FS) Write(key string, data []byte) (string, error) {
	abs, err := f.safePath(key)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w: %w", apperr.ErrStoreFailure, err)
	}

	tmp, err := os.CreateTemp(dir, ".sonar-tmp-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp: %w: %w", apperr.ErrStoreFailure, err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("storage: write temp: %w: %w", apperr.ErrStoreFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("storage: fsync: %w: %w", apperr.ErrStoreFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: close temp: %w: %w", apperr.ErrStoreFailure, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return "", fmt.Errorf("storage: rename: %w: %w", apperr.ErrStoreFailure, err)
	}
	success = true
	return abs, nil
}

// Delete removes the file stored under key.
func (f *FS) Delete(key string) error {
	abs, err := f.safePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a file is stored under key.
func (f *FS) Exists(key string) bool {
	abs, err := f.safePath(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// ModTime returns the file modification time of key.
func (f *FS) ModTime(key string) (time.Time, error) {
	abs, err := f.safePath(key)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, fmt.Errorf("storage: stat %s: %w", key, apperr.ErrNotFound)
		}
		return time.Time{}, fmt.Errorf("storage: stat %s: %w", key, err)
	}
	return info.ModTime(), nil
}

// Destroy recursively removes the namespace directory. The next Write
// recreates it.
func (f *FS) Destroy() error {
	if err := os.RemoveAll(f.root); err != nil {
		return fmt.Errorf("storage: destroy: %w", err)
	}
	return nil
}
