// Package http holds the application page and asset handlers.
package http

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
)

// AssetAction returns a handler serving one embedded asset with a
// strong ETag so browsers can revalidate cheaply.
func AssetAction(contentType string, content []byte) func(*cartridge.Context) error {
	etag := assetETag(content)
	return func(ctx *cartridge.Context) error {
		if ctx.Get("If-None-Match") == etag {
			ctx.Logger.Debug("ETag match, returning 304",
				slog.String("path", ctx.Path()))
			return ctx.Status(fiber.StatusNotModified).Send(nil) // No body for 304
		}

		ctx.Set("Content-Type", contentType)
		ctx.Set("Cache-Control", "public, max-age=3600") // 1 hour
		ctx.Set("ETag", etag)
		return ctx.Send(content)
	}
}

func assetETag(content []byte) string {
	hash := sha256.Sum256(content)
	return `"` + hex.EncodeToString(hash[:]) + `"` // Quoted for strong ETag
}
