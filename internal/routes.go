package internal

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	v1 "snippetly/api/v1"
	"snippetly/internal/config"
	apphttp "snippetly/internal/http"
	"snippetly/internal/pkg/geoip"
	"snippetly/internal/previews"
	"snippetly/internal/storage"
	"snippetly/web"
)

// publicCORSConfig returns the standard CORS configuration for public endpoints.
// Every endpoint is public; previews are meant to be shared anywhere.
var publicCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Content-Type",
}

// MountAppRoutes mounts all application routes using cartridge's route API
func MountAppRoutes(srv *cartridge.Server) {
	cfg := config.GetConfig()
	logger := srv.GetLogger()

	geoip.InitLogger(logger)

	store := storage.NewFromConfig(cfg, srv.GetDBManager().GetConnection(), logger)
	svc := previews.NewService(store, cfg.PreviewTTL(), logger)

	app := srv.App()

	// Top-level error boundary: anything uncaught becomes an opaque 500
	// JSON response. Client errors shaped by handlers pass through.
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}
		if fiberErr, ok := err.(*fiber.Error); ok && fiberErr.Code < fiber.StatusInternalServerError {
			return err
		}
		logger.Error("Unhandled request error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	})

	// Helper to conditionally apply rate limiting (only in production)
	// In development/test, rate limiting would interfere with testing
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	// Rate limiter for the upload endpoint (70 requests per minute per
	// IP). Generous for humans, stops scripted flooding of the store.
	uploadRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(70),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	uploadAPIConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		WriteConcurrency: false,
		CustomMiddleware: []fiber.Handler{uploadRateLimiter},
		CORSConfig:       publicCORSConfig,
	}

	readAPIConfig := &cartridge.RouteConfig{
		EnableCORS: true,
		CORSConfig: publicCORSConfig,
	}

	optionsOK := func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusOK)
	}

	// === STATIC FRONT END ===
	srv.Get("/", apphttp.AssetAction("text/html; charset=utf-8", web.IndexHTML))
	srv.Get("/index.html", apphttp.AssetAction("text/html; charset=utf-8", web.IndexHTML))
	srv.Get("/style.css", apphttp.AssetAction("text/css", web.StyleCSS))
	srv.Get("/script.js", apphttp.AssetAction("application/javascript", web.ScriptJS))

	// Health check endpoint
	srv.Get("/_health", apphttp.HealthIndexAction(store))
	srv.Head("/_health", apphttp.HealthIndexAction(store))

	// === PUBLIC API ROUTES ===
	srv.Post("/api/upload", v1.UploadAction(svc, cfg.MaxContentBytes), uploadAPIConfig)
	srv.Options("/api/upload", optionsOK, uploadAPIConfig)

	srv.Get("/api/stats/:id?", v1.StatsAction(svc), readAPIConfig)
	srv.Options("/api/stats/:id?", optionsOK, readAPIConfig)

	// === PREVIEW ROUTES ===
	// The id is optional so a bare /preview/ hits the handler's 400
	// instead of the catch-all 404.
	srv.Get("/preview/:id?", v1.PreviewAction(svc), readAPIConfig)

	// Catch-all: permissive CORS preflight for any path, plain 404 for
	// everything else.
	app.Use(func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			c.Set("Access-Control-Allow-Origin", publicCORSConfig.AllowOrigins)
			c.Set("Access-Control-Allow-Methods", publicCORSConfig.AllowMethods)
			c.Set("Access-Control-Allow-Headers", publicCORSConfig.AllowHeaders)
			return c.SendStatus(fiber.StatusOK)
		}
		return c.Status(fiber.StatusNotFound).SendString("page not found")
	})
}
