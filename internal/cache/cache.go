// Package cache remembers the digest of every view file that was compiled, so
// unchanged views are not regenerated.
package cache

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketDigests = "digests"

// Cache is a digest store backed by a bbolt database.
type Cache struct {
	db *bolt.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDigests))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache %s: %w", path, err)
	}
	return &Cache{db: db}, nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Digest hashes the given parts into a cache digest. Parts are length-prefixed
// so that moving bytes between parts changes the digest.
func Digest(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		h.Write(p)
	}
	return h.Sum(nil)
}

// Fresh reports whether key was last stored with digest.
func (c *Cache) Fresh(key string, digest []byte) (bool, error) {
	var fresh bool
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDigests))
		fresh = bytes.Equal(b.Get([]byte(key)), digest)
		return nil
	})
	return fresh, err
}

// Store records digest for key.
func (c *Cache) Store(key string, digest []byte) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDigests))
		return b.Put([]byte(key), digest)
	})
}

// Forget removes key, forcing its next compilation.
func (c *Cache) Forget(key string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDigests))
		return b.Delete([]byte(key))
	})
}
