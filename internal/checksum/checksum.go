// Package checksum derives stable cache keys.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Key returns the cache key for a request URL, with an optional suffix such
// as ".json" so cached files stay recognisable on disk.
func Key(requestURL, suffix string) string {
	return Sum([]byte(requestURL)) + suffix
}
