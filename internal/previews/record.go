// Package previews holds the stored preview envelope and the view
// statistics aggregation that runs on every render.
package previews

import (
	"encoding/json"
	"errors"
	"time"
)

// Recognized file type tags. Anything else travels through as-is and
// renders via the plain-text fallback.
const (
	FileTypeHTML       = "html"
	FileTypeCSS        = "css"
	FileTypeJavaScript = "javascript"
	FileTypeJSON       = "json"
	FileTypeXML        = "xml"
	FileTypeSVG        = "svg"
)

// Stats bounds. Referrer/user-agent/country maps prune lowest counts,
// the visitor set evicts oldest-first, daily counters age out.
const (
	MaxUniqueVisitors = 1000
	MaxReferrers      = 100
	MaxUserAgents     = 50
	MaxCountries      = 100
	DailyWindowDays   = 30
)

// DateFormat is the key layout for daily view counters.
const DateFormat = "2006-01-02"

// Stats is the mutable part of a Record, updated on every preview view.
type Stats struct {
	Views          int64      `json:"views"`
	FirstViewed    *time.Time `json:"firstViewed,omitempty"`
	LastViewed     *time.Time `json:"lastViewed,omitempty"`
	UniqueVisitors FifoSet    `json:"uniqueVisitors"`
	DailyViews     DateCounts `json:"dailyViews"`
	Referrers      TopCounts  `json:"referrers"`
	UserAgents     TopCounts  `json:"userAgents"`
	Bots           int64      `json:"bots,omitempty"`
	Countries      TopCounts  `json:"countries,omitempty"`
}

// Record is the stored envelope for one preview. Everything except
// Stats is immutable after creation.
type Record struct {
	Content      string    `json:"content"`
	FileType     string    `json:"fileType"`
	UploadTime   time.Time `json:"uploadTime"`
	OriginalSize int       `json:"originalSize"`
	Stats        Stats     `json:"stats"`
}

// NewRecord builds a fresh Record with zeroed stats.
func NewRecord(content, fileType string, now time.Time) *Record {
	if fileType == "" {
		fileType = FileTypeHTML
	}
	return &Record{
		Content:      content,
		FileType:     fileType,
		UploadTime:   now,
		OriginalSize: len(content),
		Stats:        newStats(),
	}
}

func newStats() Stats {
	return Stats{
		UniqueVisitors: FifoSet{},
		DailyViews:     DateCounts{},
		Referrers:      TopCounts{},
		UserAgents:     TopCounts{},
	}
}

// ensureCollections backfills nil collections after a JSON round trip
// so the aggregator can mutate them without nil checks.
func (s *Stats) ensureCollections() {
	if s.UniqueVisitors == nil {
		s.UniqueVisitors = FifoSet{}
	}
	if s.DailyViews == nil {
		s.DailyViews = DateCounts{}
	}
	if s.Referrers == nil {
		s.Referrers = TopCounts{}
	}
	if s.UserAgents == nil {
		s.UserAgents = TopCounts{}
	}
}

// Encode serializes the record to its stored JSON form.
func (r *Record) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeStoredValue classifies a stored value as either a Record
// envelope or legacy raw HTML written before the envelope existed.
// A Record always carries non-empty content (enforced at upload), so a
// parse yielding empty content means the value predates the envelope.
func DecodeStoredValue(raw string) *Record {
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err == nil && rec.Content != "" {
		rec.Stats.ensureCollections()
		return &rec
	}
	return legacyRecord(raw)
}

// legacyRecord wraps a pre-envelope raw HTML value. The upload time is
// unknown and stays zero.
func legacyRecord(raw string) *Record {
	return &Record{
		Content:      raw,
		FileType:     FileTypeHTML,
		OriginalSize: len(raw),
		Stats:        newStats(),
	}
}

// DecodeRecord strictly parses a stored value as a Record envelope.
// Used where legacy recovery is not wanted (the stats read path reports
// pre-envelope values as corrupt instead of inventing data for them).
func DecodeRecord(raw string) (*Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	// Same non-empty-content rule as DecodeStoredValue. A JSON value
	// that parses but has no content is a pre-envelope legacy write,
	// not a Record.
	if rec.Content == "" {
		return nil, errors.New("stored value is not a preview envelope")
	}
	rec.Stats.ensureCollections()
	return &rec, nil
}
