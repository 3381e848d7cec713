// Package localstore implements the keyed local store: a thin layer over the
// local storage area that announces every write as a storage-changed event.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nuemind/student-profile/internal/domain/shared"
	"github.com/nuemind/student-profile/internal/domain/storage"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains the store's collaborators.
type Config struct {
	// Area is the backing local storage area (required)
	Area storage.Area

	// Publisher receives a storage-changed event per write
	Publisher shared.EventPublisher

	// Clock stamps events; defaults to time.Now
	Clock func() time.Time

	// Registerer receives the store's metrics; nil skips registration
	Registerer prometheus.Registerer

	// Logger for structured logging
	Logger *slog.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store is the keyed local store. Reads go straight to the area; writes
// persist first and then publish exactly one storage-changed event.
type Store struct {
	area      storage.Area
	publisher shared.EventPublisher
	clock     func() time.Time
	writes    *prometheus.CounterVec
	logger    *slog.Logger
}

// New creates a Store.
func New(cfg Config) (*Store, error) {
	if cfg.Area == nil {
		return nil, errors.New("localstore: area is required")
	}
	if cfg.Publisher == nil {
		cfg.Publisher = shared.NopPublisher{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "localstore_writes_total",
		Help: "Writes to the keyed local store, by key.",
	}, []string{"key"})

	if cfg.Registerer != nil {
		if err := cfg.Registerer.Register(writes); err != nil {
			return nil, fmt.Errorf("localstore: register metrics: %w", err)
		}
	}

	return &Store{
		area:      cfg.Area,
		publisher: cfg.Publisher,
		clock:     cfg.Clock,
		writes:    writes,
		logger:    cfg.Logger.With("component", "localstore"),
	}, nil
}

// Get returns the value under key; ok is false if it was never written.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	return s.area.Get(ctx, key)
}

// Set persists value under key and publishes a storage-changed event.
// A publish failure is logged; the write still counts as done.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.area.Set(ctx, key, value); err != nil {
		return fmt.Errorf("localstore: set %q: %w", key, err)
	}
	s.writes.WithLabelValues(key).Inc()

	event := shared.NewStorageChangedEvent(key, value, s.clock())
	if err := s.publisher.Publish(event); err != nil {
		s.logger.Warn("failed to publish storage change", "key", key, "error", err)
	}

	return nil
}

// AvatarURL returns the stored avatar URL.
func (s *Store) AvatarURL(ctx context.Context) (string, bool, error) {
	return s.Get(ctx, storage.KeyAvatarURL)
}

// SetAvatarURL stores the avatar URL.
func (s *Store) SetAvatarURL(ctx context.Context, url string) error {
	return s.Set(ctx, storage.KeyAvatarURL, url)
}

// Name returns the stored display name.
func (s *Store) Name(ctx context.Context) (string, bool, error) {
	return s.Get(ctx, storage.KeyName)
}

// SetName stores the display name.
func (s *Store) SetName(ctx context.Context, name string) error {
	return s.Set(ctx, storage.KeyName, name)
}

// WritesCollector exposes the write counter, mainly for tests.
func (s *Store) WritesCollector() *prometheus.CounterVec {
	return s.writes
}
