package http

import (
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge"

	"snippetly/internal/storage"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	StoreStatus string    `json:"store_status"`
}

// HealthIndexAction returns the health check handler. It pings the
// preview store and degrades the overall status when the store is
// unreachable.
func HealthIndexAction(store storage.Store) func(*cartridge.Context) error {
	return func(ctx *cartridge.Context) error {
		storeStatus := "ok"
		if err := store.Ping(ctx.Ctx.UserContext()); err != nil {
			storeStatus = "error"
			ctx.Logger.Error("Store ping failed", slog.Any("error", err))
		}

		health := HealthStatus{
			Status:      "ok",
			Timestamp:   time.Now(),
			StoreStatus: storeStatus,
		}
		if storeStatus != "ok" {
			health.Status = "degraded"
		}

		return ctx.JSON(health)
	}
}
