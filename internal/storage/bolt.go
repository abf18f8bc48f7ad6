package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/sonar/internal/apperr"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketBlobs  = []byte("blobs")
	bucketMtimes = []byte("mtimes")
)

// Bolt implements Provider on top of a single BoltDB file. Modification
// times live in a sidecar bucket so the payload stays unwrapped.
type Bolt struct {
	db   *bolt.DB
	path string
	now  func() time.Time
}

// NewBolt opens (or creates) the BoltDB file at path.
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create bolt dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("storage: open bolt db: %w", err)
	}
	if err := db.Update(createBuckets); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create buckets: %w", err)
	}
	return &Bolt{db: db, path: path, now: time.Now}, nil
}

func createBuckets(tx *bolt.Tx) error {
	for _, bucket := range [][]byte{bucketBlobs, bucketMtimes} {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database file lock.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Read(key string) ([]byte, error) {
	var data []byte
	b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketBlobs).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, apperr.ErrNotFound)
	}
	return data, nil
}

// Write stores data and its modification time in one transaction.
func (b *Bolt) Write(key string, data []byte) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage: empty key")
	}
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(b.now().UnixNano()))

	err := b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketBlobs).Put([]byte(key), data); err != nil {
			return err
		}
		return tx.Bucket(bucketMtimes).Put([]byte(key), ts[:])
	})
	if err != nil {
		return "", fmt.Errorf("storage: bolt put %s: %w: %w", key, apperr.ErrStoreFailure, err)
	}
	return "bolt://" + b.path + "#" + key, nil
}

func (b *Bolt) Delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketBlobs).Delete([]byte(key)); err != nil {
			return err
		}
		return tx.Bucket(bucketMtimes).Delete([]byte(key))
	})
}

func (b *Bolt) Exists(key string) bool {
	found := false
	b.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(bucketBlobs).Get([]byte(key)) != nil
		return nil
	})
	return found
}

func (b *Bolt) ModTime(key string) (time.Time, error) {
	var ts uint64
	found := false
	b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketMtimes).Get([]byte(key)); len(v) == 8 {
			ts = binary.BigEndian.Uint64(v)
			found = true
		}
		return nil
	})
	if !found {
		return time.Time{}, fmt.Errorf("storage: stat %s: %w", key, apperr.ErrNotFound)
	}
	return time.Unix(0, int64(ts)), nil
}

// Destroy drops and recreates both buckets.
func (b *Bolt) Destroy() error {
	return b.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketBlobs, bucketMtimes} {
			if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		return createBuckets(tx)
	})
}
