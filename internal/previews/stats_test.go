package previews

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snippetly/internal/useragent"
	"snippetly/internal/visitors"
)

const (
	chromeUA  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
	firefoxUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0"
)

func TestRecordViewCountsAndTimestamps(t *testing.T) {
	stats := newStats()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		stats.Record(View{
			IPAddress: "203.0.113.7",
			UserAgent: chromeUA,
			Now:       base.Add(time.Duration(i) * time.Minute),
		})
	}

	assert.Equal(t, int64(5), stats.Views)
	require.NotNil(t, stats.FirstViewed)
	require.NotNil(t, stats.LastViewed)
	assert.Equal(t, base, *stats.FirstViewed)
	assert.Equal(t, base.Add(4*time.Minute), *stats.LastViewed)
	assert.Len(t, stats.UniqueVisitors, 1, "same address counts once")
}

func TestRecordTwoBrowsersTwoVisitors(t *testing.T) {
	stats := newStats()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	stats.Record(View{IPAddress: "203.0.113.1", UserAgent: chromeUA, Now: now})
	stats.Record(View{IPAddress: "203.0.113.2", UserAgent: firefoxUA, Now: now})

	assert.Equal(t, int64(2), stats.Views)
	assert.Len(t, stats.UniqueVisitors, 2)
	assert.Equal(t, 1, stats.UserAgents[useragent.LabelChrome])
	assert.Equal(t, 1, stats.UserAgents[useragent.LabelFirefox])
	assert.Equal(t, 2, stats.DailyViews["2026-03-10"])
	assert.Equal(t, 2, stats.Referrers["direct"])
}

func TestRecordVisitorSetEvictsOldest(t *testing.T) {
	stats := newStats()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < MaxUniqueVisitors+1; i++ {
		stats.Record(View{
			IPAddress: fmt.Sprintf("10.0.%d.%d", i/256, i%256),
			UserAgent: chromeUA,
			Now:       now,
		})
	}

	assert.Len(t, stats.UniqueVisitors, MaxUniqueVisitors)
	assert.False(t, stats.UniqueVisitors.Contains(visitors.Hash("10.0.0.0")),
		"oldest visitor should be evicted")
	assert.True(t, stats.UniqueVisitors.Contains(visitors.Hash("10.0.0.1")))
	assert.Equal(t, int64(MaxUniqueVisitors+1), stats.Views,
		"views keep counting past the visitor cap")
}

func TestRecordDailyWindowPruning(t *testing.T) {
	stats := newStats()
	old := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	stats.Record(View{IPAddress: "203.0.113.1", UserAgent: chromeUA, Now: old})
	assert.Equal(t, 1, stats.DailyViews["2026-01-01"])

	stats.Record(View{IPAddress: "203.0.113.1", UserAgent: chromeUA, Now: recent})
	assert.NotContains(t, stats.DailyViews, "2026-01-01",
		"days outside the rolling window are dropped")
	assert.Equal(t, 1, stats.DailyViews["2026-03-10"])
	assert.Equal(t, int64(2), stats.Views, "total views survive date pruning")
}

func TestRecordReferrerPruningKeepsHighestCounts(t *testing.T) {
	stats := newStats()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// One referrer seen twice, then enough distinct ones to overflow.
	stats.Record(View{IPAddress: "10.0.0.1", UserAgent: chromeUA, Referrer: "https://popular.example.com/a", Now: now})
	stats.Record(View{IPAddress: "10.0.0.2", UserAgent: chromeUA, Referrer: "https://popular.example.com/b", Now: now})
	for i := 0; i < MaxReferrers+10; i++ {
		stats.Record(View{
			IPAddress: "10.0.0.3",
			UserAgent: chromeUA,
			Referrer:  fmt.Sprintf("https://site%03d.example.com/", i),
			Now:       now,
		})
	}

	assert.LessOrEqual(t, len(stats.Referrers), MaxReferrers)
	assert.Contains(t, stats.Referrers, "popular.example.com",
		"highest-counted referrer survives pruning")
	assert.Equal(t, 2, stats.Referrers["popular.example.com"])
}

func TestRecordBotsExcludedFromVisitors(t *testing.T) {
	stats := newStats()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	stats.Record(View{
		IPAddress: "203.0.113.1",
		UserAgent: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
		Now:       now,
	})
	stats.Record(View{IPAddress: "203.0.113.2", UserAgent: chromeUA, Now: now})

	assert.Equal(t, int64(2), stats.Views, "bot views still count toward views")
	assert.Equal(t, int64(1), stats.Bots)
	assert.Len(t, stats.UniqueVisitors, 1, "bots stay out of the visitor set")
}

func TestRecordCountries(t *testing.T) {
	stats := newStats()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	stats.Record(View{IPAddress: "203.0.113.1", UserAgent: chromeUA, Country: "de", Now: now})
	stats.Record(View{IPAddress: "203.0.113.2", UserAgent: chromeUA, Country: "de", Now: now})
	stats.Record(View{IPAddress: "203.0.113.3", UserAgent: chromeUA, Now: now})

	assert.Equal(t, 2, stats.Countries["de"])
	assert.Len(t, stats.Countries, 1, "views without a resolved country add nothing")
}
