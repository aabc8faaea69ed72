package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one stored key-value row. Expired rows are treated as absent
// on read and hard-deleted by the cleanup job.
type Entry struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SQLiteStore implements Store on a gorm/sqlite connection.
type SQLiteStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewSQLiteStore(db *gorm.DB, logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, logger: logger}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var entry Entry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	// Rows past their expiry are invisible even before the sweeper runs.
	if time.Now().UTC().After(entry.ExpiresAt) {
		return "", ErrNotFound
	}

	return entry.Value, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	now := time.Now().UTC()
	entry := Entry{
		Key:       key,
		Value:     value,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return sqlite.PerformWrite(s.logger, s.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).Create(&entry).Error
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return sqlite.PerformWrite(s.logger, s.db.WithContext(ctx), func(tx *gorm.DB) error {
		return tx.Delete(&Entry{}, "key = ?", key).Error
	})
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// PurgeExpired hard-deletes expired rows in batches and returns the
// number removed. Batching keeps write locks short (the database also
// serves live traffic).
func (s *SQLiteStore) PurgeExpired(ctx context.Context, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	cutoff := time.Now().UTC()
	totalDeleted := int64(0)

	for {
		var deleted int64
		err := sqlite.PerformWrite(s.logger, s.db.WithContext(ctx), func(tx *gorm.DB) error {
			result := tx.Where("expires_at < ?", cutoff).
				Limit(batchSize).
				Delete(&Entry{})
			deleted = result.RowsAffected
			return result.Error
		})
		if err != nil {
			return totalDeleted, err
		}

		totalDeleted += deleted
		if deleted < int64(batchSize) {
			break
		}

		// Small delay between batches to prevent database lock contention
		time.Sleep(100 * time.Millisecond)
	}

	return totalDeleted, nil
}
