package v1

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/pariz/gountries"

	"snippetly/internal/previews"
)

const (
	errNotFound    = "not found"
	errCorruptData = "corrupt data"
)

// statsProjection is the wire shape of a preview's stats. It mirrors
// the stored stats except uniqueVisitors collapses to its cardinality;
// the pseudonymous hash list never leaves the server.
type statsProjection struct {
	Views          int64               `json:"views"`
	FirstViewed    *time.Time          `json:"firstViewed,omitempty"`
	LastViewed     *time.Time          `json:"lastViewed,omitempty"`
	UniqueVisitors int                 `json:"uniqueVisitors"`
	DailyViews     previews.DateCounts `json:"dailyViews"`
	Referrers      previews.TopCounts  `json:"referrers"`
	UserAgents     previews.TopCounts  `json:"userAgents"`
	Bots           int64               `json:"bots,omitempty"`
	Countries      []countryStat       `json:"countries,omitempty"`
}

type countryStat struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatsAction returns the handler for GET /api/stats/:id.
func StatsAction(svc *previews.Service) func(*cartridge.Context) error {
	return func(ctx *cartridge.Context) error {
		id := strings.TrimSpace(ctx.Params("id"))
		if id == "" {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid preview id"})
		}

		rec, err := svc.LoadStrict(ctx.Ctx.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, previews.ErrNotFound):
				return ctx.Status(http.StatusNotFound).JSON(fiber.Map{"error": errNotFound})
			case errors.Is(err, previews.ErrCorrupt):
				ctx.Logger.Warn("Stored preview is not a valid envelope",
					slog.String("preview_id", id))
				return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": errCorruptData})
			default:
				ctx.Logger.Error("Failed to load preview stats",
					slog.String("preview_id", id),
					slog.Any("error", err))
				return err
			}
		}

		return ctx.JSON(fiber.Map{
			"success":    true,
			"previewId":  id,
			"fileType":   rec.FileType,
			"uploadTime": rec.UploadTime,
			"stats":      projectStats(&rec.Stats),
		})
	}
}

func projectStats(s *previews.Stats) statsProjection {
	return statsProjection{
		Views:          s.Views,
		FirstViewed:    s.FirstViewed,
		LastViewed:     s.LastViewed,
		UniqueVisitors: len(s.UniqueVisitors),
		DailyViews:     s.DailyViews,
		Referrers:      s.Referrers,
		UserAgents:     s.UserAgents,
		Bots:           s.Bots,
		Countries:      projectCountries(s.Countries),
	}
}

var countryQuery = sync.OnceValue(gountries.New)

// projectCountries expands ISO codes to display names, ordered by count
// descending then code for a stable response.
func projectCountries(counts previews.TopCounts) []countryStat {
	if len(counts) == 0 {
		return nil
	}

	out := make([]countryStat, 0, len(counts))
	for code, count := range counts {
		name := code
		if country, err := countryQuery().FindCountryByAlpha(strings.ToUpper(code)); err == nil {
			name = country.Name.Common
		}
		out = append(out, countryStat{Code: code, Name: name, Count: count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	return out
}
