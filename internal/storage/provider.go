// Package storage defines the byte-store abstraction the cache and the
// search history are built on.
package storage

import "time"

// Provider is a durable key to bytes store with modification-time tracking.
// Keys are slash separated paths relative to the store namespace.
type Provider interface {
	// Read returns the stored bytes. Missing keys yield an error wrapping apperr.ErrNotFound.
	Read(key string) ([]byte, error)
	// Write replaces the bytes under key and refreshes its modification time.
	// It returns the storage location on success. A failed write leaves no
	// readable partial entry behind.
	Write(key string, data []byte) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Exists reports whether key is present.
	Exists(key string) bool
	// ModTime returns the last time key was written.
	ModTime(key string) (time.Time, error)
	// Destroy wipes the whole namespace.
	Destroy() error
}

// Backend names accepted by Open.
const (
	BackendFS     = "fs"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)
