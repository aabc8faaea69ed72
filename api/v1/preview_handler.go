package v1

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/karloscodes/cartridge"

	"snippetly/internal/pkg/geoip"
	"snippetly/internal/previews"
	"snippetly/internal/render"
)

// PreviewAction returns the handler for GET /preview/:id. It serves
// the rendered document and folds the view into the preview's stats.
// Stats persistence is best-effort: a view always renders, even when
// the write-back fails.
func PreviewAction(svc *previews.Service) func(*cartridge.Context) error {
	return func(ctx *cartridge.Context) error {
		id := strings.TrimSpace(ctx.Params("id"))
		if id == "" {
			return ctx.Status(http.StatusBadRequest).SendString("invalid preview id")
		}

		rec, err := svc.Load(ctx.Ctx.UserContext(), id)
		if err != nil {
			if errors.Is(err, previews.ErrNotFound) {
				ctx.Set("Content-Type", "text/html; charset=utf-8")
				return ctx.Status(http.StatusNotFound).SendString(render.NotFoundPage())
			}
			ctx.Logger.Error("Failed to load preview",
				slog.String("preview_id", id),
				slog.Any("error", err))
			return err
		}

		ip := getClientIP(ctx.Ctx)
		svc.RecordView(ctx.Ctx.UserContext(), id, rec, previews.View{
			IPAddress: ip,
			UserAgent: requestUserAgent(ctx.Ctx),
			Referrer:  ctx.Get("Referer"),
			Country:   geoip.CountryFromIP(ip),
			Now:       time.Now().UTC(),
		})

		ctx.Set("Content-Type", "text/html; charset=utf-8")
		return ctx.SendString(render.Document(rec.Content, rec.FileType, id))
	}
}
