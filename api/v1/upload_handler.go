// Package v1 holds the public preview API handlers.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"snippetly/internal/previews"
)

const (
	errContentRequired = "content required"
	errContentTooLong  = "content too large"
)

// UploadAction returns the handler for POST /api/upload. Content
// arrives as a multipart or urlencoded form with a content field (or
// the legacy html field name) and an optional fileType.
func UploadAction(svc *previews.Service, maxContentBytes int) func(*cartridge.Context) error {
	return func(ctx *cartridge.Context) error {
		content := ctx.FormValue("content")
		if content == "" {
			content = ctx.FormValue("html") // field name used by the first clients
		}
		if content == "" {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": errContentRequired})
		}
		if len(content) > maxContentBytes {
			ctx.Logger.Debug("Rejected oversize upload",
				slog.Int("size_bytes", len(content)),
				slog.Int("limit_bytes", maxContentBytes))
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": errContentTooLong})
		}

		fileType := ctx.FormValue("fileType")

		id, err := svc.Create(ctx.Ctx.UserContext(), content, fileType)
		if err != nil {
			ctx.Logger.Error("Failed to store preview", slog.Any("error", err))
			return err
		}

		return ctx.JSON(fiber.Map{
			"success":    true,
			"previewId":  id,
			"previewUrl": ctx.BaseURL() + "/preview/" + id,
		})
	}
}
