package previews

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"snippetly/internal/identifier"
	"snippetly/internal/storage"
)

// ErrNotFound is returned when a preview id has no stored value, either
// because it never existed or its TTL has elapsed.
var ErrNotFound = errors.New("preview not found")

// ErrCorrupt is returned on the strict read path when a stored value is
// not a valid preview envelope.
var ErrCorrupt = errors.New("corrupt preview data")

// Service owns the preview lifecycle: creation, lookup and view
// recording against the configured store.
type Service struct {
	store  storage.Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewService builds a Service. ttl applies to every stored preview and
// is refreshed on each write.
func NewService(store storage.Store, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{store: store, ttl: ttl, logger: logger}
}

// Create stores new content under a fresh identifier and returns it.
func (s *Service) Create(ctx context.Context, content, fileType string) (string, error) {
	rec := NewRecord(content, fileType, time.Now().UTC())
	encoded, err := rec.Encode()
	if err != nil {
		return "", err
	}

	id := identifier.New()
	if err := s.store.Put(ctx, id, encoded, s.ttl); err != nil {
		return "", err
	}

	s.logger.Info("Preview created",
		slog.String("preview_id", id),
		slog.String("file_type", rec.FileType),
		slog.Int("size_bytes", rec.OriginalSize))
	return id, nil
}

// Load fetches a preview for rendering. Values that predate the stats
// envelope come back wrapped as plain HTML records.
func (s *Service) Load(ctx context.Context, id string) (*Record, error) {
	raw, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return DecodeStoredValue(raw), nil
}

// LoadStrict fetches a preview for the stats read path. Unlike Load it
// refuses to invent an envelope for unparseable values.
func (s *Service) LoadStrict(ctx context.Context, id string) (*Record, error) {
	raw, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rec, err := DecodeRecord(raw)
	if err != nil {
		return nil, ErrCorrupt
	}
	return rec, nil
}

// RecordView folds one view into a preview's stats and writes the
// updated envelope back. It is best-effort: the preview render must
// never fail because stats bookkeeping did, so every error is logged
// and swallowed. Concurrent views can lose updates to each other; a
// read-modify-write on a plain KV store has no cheaper answer and view
// counts tolerate small undercounts.
func (s *Service) RecordView(ctx context.Context, id string, rec *Record, view View) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Panic while recording preview view",
				slog.String("preview_id", id),
				slog.Any("panic", r))
		}
	}()

	rec.Stats.Record(view)

	encoded, err := rec.Encode()
	if err != nil {
		s.logger.Warn("Failed to encode preview stats",
			slog.String("preview_id", id),
			slog.Any("error", err))
		return
	}

	if err := s.store.Put(ctx, id, encoded, s.ttl); err != nil {
		s.logger.Warn("Failed to persist preview stats",
			slog.String("preview_id", id),
			slog.Any("error", err))
	}
}
