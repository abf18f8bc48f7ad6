package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/sonar/internal/apperr"
)

const blobSchemaSQL = `
CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// SQLite implements Provider with a single key/value table.
type SQLite struct {
	conn *sql.DB
	path string
	now  func() time.Time
}

// NewSQLite opens (or creates) the SQLite database and applies the schema.
func NewSQLite(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(blobSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLite{conn: conn, path: path, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) Read(key string) ([]byte, error) {
	var data []byte
	err := s.conn.QueryRow(`SELECT data FROM blobs WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: read %s: %w", key, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return data, nil
}

func (s *SQLite) Write(key string, data []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage: empty key")
	}
	if data == nil {
		data = []byte{}
	}
	_, err := s.conn.Exec(`
		INSERT INTO blobs (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data       = excluded.data,
			updated_at = excluded.updated_at
	`, key, data, s.now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("storage: upsert %s: %w: %w", key, apperr.ErrStoreFailure, err)
	}
	return "sqlite://" + s.path + "#" + key, nil
}

func (s *SQLite) Delete(key string) error {
	if _, err := s.conn.Exec(`DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Exists(key string) bool {
	var one int
	return s.conn.QueryRow(`SELECT 1 FROM blobs WHERE key = ?`, key).Scan(&one) == nil
}

func (s *SQLite) ModTime(key string) (time.Time, error) {
	var ts int64
	err := s.conn.QueryRow(`SELECT updated_at FROM blobs WHERE key = ?`, key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("storage: stat %s: %w", key, apperr.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("storage: stat %s: %w", key, err)
	}
	return time.Unix(0, ts), nil
}

// Destroy deletes every row; the database file itself stays open.
func (s *SQLite) Destroy() error {
	if _, err := s.conn.Exec(`DELETE FROM blobs`); err != nil {
		return fmt.Errorf("storage: destroy: %w", err)
	}
	return nil
}
