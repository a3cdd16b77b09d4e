package defs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketDefs   = []byte("definitions")
	keyTable     = []byte("table")
	keyFetchedAt = []byte("fetched_at")
)

// ErrNoCache means no table has ever been cached at the given path.
var ErrNoCache = errors.New("no cached definition table")

// cachePut stores the serialized table alongside the fetch time. The run is
// one-shot, so the database is opened and closed per call.
func cachePut(path string, data []byte) error {
	db, err := openCache(path)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDefs)
		if err := b.Put(keyTable, data); err != nil {
			return err
		}
		return b.Put(keyFetchedAt, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// cacheGet returns the last cached table and when it was fetched.
func cacheGet(path string) ([]byte, time.Time, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, time.Time{}, ErrNoCache
	}

	db, err := openCache(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer db.Close()

	var data []byte
	var fetchedAt time.Time
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDefs)
		raw := b.Get(keyTable)
		if raw == nil {
			return ErrNoCache
		}
		data = append([]byte(nil), raw...)
		if at := b.Get(keyFetchedAt); at != nil {
			fetchedAt, _ = time.Parse(time.RFC3339, string(at))
		}
		return nil
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, fetchedAt, nil
}

func openCache(path string) (*bolt.DB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open definition cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDefs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}
	return db, nil
}
