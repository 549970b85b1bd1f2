package tmdbcache

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"trailertech/internal/logging"
	"trailertech/internal/services"
)

// Cache provides thread-safe persistence for TMDB lookups. The zero-path
// cache is valid and silently does nothing.
type Cache struct {
	db     *bolt.DB
	logger *slog.Logger
}

// Open opens (or creates) the cache database at path. An empty path yields
// a disabled cache. The bolt open uses a short timeout so a concurrent
// process holding the file lock fails fast instead of hanging.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	logger = logging.NewComponentLogger(logger, "tmdbcache")

	path = strings.TrimSpace(path)
	if path == "" {
		return &Cache{logger: logger}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "tmdbcache", "open", "create cache directory", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "tmdbcache", "open", path, err)
	}
	return &Cache{db: db, logger: logger}, nil
}

// Enabled reports whether the cache is backed by a database.
func (c *Cache) Enabled() bool {
	return c != nil && c.db != nil
}

// Get returns the stored value for key within bucket.
func (c *Cache) Get(bucket, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	var value []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		// Bolt values are only valid inside the transaction.
		if data := b.Get([]byte(key)); data != nil {
			value = slices.Clone(data)
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("cache read failed",
			logging.String("bucket", bucket),
			logging.Error(err))
		return nil, false
	}
	return value, value != nil
}

// Put stores value under key within bucket. Write failures are logged and
// otherwise ignored; the caller falls back to a live lookup next time.
func (c *Cache) Put(bucket, key string, value []byte) {
	if !c.Enabled() {
		return
	}
	err := c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
	if err != nil {
		c.logger.Warn("cache write failed",
			logging.String("bucket", bucket),
			logging.Error(err))
	}
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.db.Close()
}
