package jobs

import (
	"context"
	"log/slog"
	"time"

	"snippetly/internal/database"
	"snippetly/internal/storage"
)

// sweepBatchSize bounds how many rows one delete statement touches so
// the sweep never holds the write lock for long.
const sweepBatchSize = 500

// SweeperJob hard-deletes expired preview rows. Reads already treat
// expired rows as absent; the sweep just reclaims the space.
type SweeperJob struct {
	store  *storage.SQLiteStore
	logger *slog.Logger
}

func NewSweeperJob(dbManager *database.DBManager, logger *slog.Logger) *SweeperJob {
	return &SweeperJob{
		store:  storage.NewSQLiteStore(dbManager.GetConnection(), logger),
		logger: logger,
	}
}

func (j *SweeperJob) Run() error {
	start := time.Now()

	deleted, err := j.store.PurgeExpired(context.Background(), sweepBatchSize)
	if err != nil {
		return err
	}

	if deleted > 0 {
		j.logger.Info("Swept expired previews",
			slog.Int64("deleted", deleted),
			slog.Duration("elapsed", time.Since(start)))
	} else {
		j.logger.Debug("No expired previews to sweep")
	}

	return nil
}
