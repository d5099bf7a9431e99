// Package schemacache caches table descriptions so hot paths that resolve
// column metadata on every call do not round-trip to the backend each time.
// Entries live in an in-memory badger store and expire by TTL.
package schemacache

import (
	"encoding/json"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 5 * time.Minute

// Cache is a TTL cache of table descriptions keyed by dialect and table.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// New opens an in-memory cache with the given TTL.
func New(ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Cache{db: db, ttl: ttl}, nil
}

// Key builds the cache key for a table reference under a dialect.
func Key(dialect string, ref domain.TableReference) string {
	return "describe:" + dialect + ":" + ref.QualifiedName()
}

// Get returns the cached description, or ok=false when absent or expired.
func (c *Cache) Get(key string) (map[string]domain.ColumnDescription, bool) {
	var desc map[string]domain.ColumnDescription
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &desc)
		})
	})
	if err != nil {
		return nil, false
	}
	return desc, true
}

// Set stores a description under the key with the cache TTL.
func (c *Cache) Set(key string, desc map[string]domain.ColumnDescription) error {
	data, err := json.Marshal(desc)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}

// Invalidate drops a key. Missing keys are not an error.
func (c *Cache) Invalidate(key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.db.Close()
}
