package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/starford/sonar/internal/apperr"
)

// Open builds the Provider for backend rooted at dir. File backends keep
// their database inside dir so Destroy semantics stay per namespace.
func Open(backend, dir string) (Provider, error) {
	switch backend {
	case BackendFS, "":
		return NewFS(dir)
	case BackendBolt:
		return NewBolt(filepath.Join(dir, "cache.db"))
	case BackendSQLite:
		fsRoot, err := NewFS(dir)
		if err != nil {
			return nil, err
		}
		return NewSQLite(filepath.Join(fsRoot.Root(), "cache.sqlite"))
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}

// Close releases p when the backend holds an open handle.
func Close(p Provider) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ReadJSON decodes the JSON document stored under key into v. A missing
// key leaves v untouched and returns nil.
func ReadJSON(p Provider, key string, v any) error {
	data, err := p.Read(key)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return nil
}

// WriteJSON encodes v and stores it under key.
func WriteJSON(p Provider, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	_, err = p.Write(key, data)
	return err
}
