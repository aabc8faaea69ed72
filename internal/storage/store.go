// Package storage provides the key-value store behind preview records.
// Values are opaque strings; expiry is the store's responsibility.
package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"snippetly/internal/config"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("storage: key not found")

// Store is the key-value port. Both adapters are last-write-wins; there
// is no conditional write, so concurrent read-modify-write cycles on the
// same key can lose updates.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Put stores value under key with the given TTL, overwriting any
	// previous value and resetting its expiry.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// NewFromConfig selects the store adapter for the configured driver.
// The sqlite adapter reuses the application's gorm connection; the redis
// adapter opens its own client.
func NewFromConfig(cfg *config.Config, db *gorm.DB, logger *slog.Logger) Store {
	switch cfg.StorageDriver {
	case config.RedisStorage:
		return NewRedisStore(cfg, logger)
	default:
		return NewSQLiteStore(db, logger)
	}
}
