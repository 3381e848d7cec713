// Package profile holds the profile state container. A load fetches the
// current student's record, persists the derived session and local fields,
// rebuilds the view-model triple and announces profile-data-ready.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	domain "github.com/nuemind/student-profile/internal/domain/profile"
	"github.com/nuemind/student-profile/internal/domain/shared"
	"github.com/nuemind/student-profile/internal/domain/storage"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// LocalStore is the keyed local store surface the loader writes through.
type LocalStore interface {
	SetAvatarURL(ctx context.Context, url string) error
	SetName(ctx context.Context, name string) error
}

// Option configures a Store.
type Option func(*Store)

// WithDeduplication collapses overlapping Load calls onto one in-flight load.
// Joiners share the first caller's context and result.
func WithDeduplication() Option {
	return func(s *Store) { s.dedup = true }
}

// WithPublisher sets where profile-data-ready is published.
func WithPublisher(p shared.EventPublisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithClock sets the clock used to stamp events.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithRegisterer registers the loader's metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Store) { s.registerer = reg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// ══════════════════════════════════════════════════════════════════════════════
// STATE
// ══════════════════════════════════════════════════════════════════════════════

// State is a point-in-time copy of the container.
type State struct {
	Loaded  bool
	Loading bool

	// Error is the message of the most recent failed load, cleared by a
	// successful one.
	Error string

	Profile  domain.ProfileViewModel
	Learning domain.LearningSnapshot
	Chart    domain.ChartSeries
}

// Store is the profile state container.
//
// Loads are not serialized. Two overlapping loads each run to completion and
// the one finishing last determines the final state, unless
// WithDeduplication is set.
type Store struct {
	source  domain.RecordSource
	session storage.Area
	local   LocalStore
	baseURL string

	publisher  shared.EventPublisher
	clock      func() time.Time
	registerer prometheus.Registerer
	metrics    *Metrics
	logger     *slog.Logger

	dedup bool
	group singleflight.Group

	mu         sync.RWMutex
	loaded     bool
	inflight   int
	lastErr    string
	projection domain.Projection
}

// New creates a Store. baseURL prefixes the record's relative avatar path.
func New(source domain.RecordSource, session storage.Area, local LocalStore, baseURL string, opts ...Option) (*Store, error) {
	if source == nil || session == nil || local == nil {
		return nil, errors.New("profile: source, session and local store are required")
	}

	s := &Store{
		source:    source,
		session:   session,
		local:     local,
		baseURL:   baseURL,
		publisher: shared.NopPublisher{},
		clock:     time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "profile")

	metrics, err := NewMetrics(s.registerer)
	if err != nil {
		return nil, err
	}
	s.metrics = metrics

	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		Loaded:   s.loaded,
		Loading:  s.inflight > 0,
		Error:    s.lastErr,
		Profile:  s.projection.Profile,
		Learning: s.projection.Learning,
		Chart:    s.projection.Chart,
	}
}

// Metrics returns the loader's collectors.
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// ══════════════════════════════════════════════════════════════════════════════
// LOAD
// ══════════════════════════════════════════════════════════════════════════════

// Load fetches the current record and replaces the container state.
//
// A failed load leaves the previous triple and loaded flag untouched, stores
// the failure message and returns a *domain.LoadError. Session and local
// writes that completed before a failure are not rolled back.
func (s *Store) Load(ctx context.Context) error {
	if !s.dedup {
		return s.load(ctx)
	}

	_, err, joined := s.group.Do("load", func() (interface{}, error) {
		return nil, s.load(ctx)
	})
	if joined {
		s.logger.Debug("joined in-flight load")
	}
	return err
}

func (s *Store) load(ctx context.Context) (err error) {
	start := time.Now()
	s.begin()
	defer func() {
		s.end()
		result := ResultSuccess
		if err != nil {
			result = string(domain.Classify(err))
		}
		s.metrics.observe(result, time.Since(start))
	}()

	token, _, err := s.session.Get(ctx, storage.KeyToken)
	if err != nil {
		return s.fail(err)
	}

	record, err := s.source.CurrentStudent(ctx, token)
	if err != nil {
		return s.fail(err)
	}
	if record == nil {
		return s.fail(shared.ErrStudentRecordNotFound)
	}

	details := record.PrimaryDetails()
	if err := s.session.Set(ctx, storage.KeyStudentID, details.StudentID); err != nil {
		return s.fail(err)
	}

	var projection domain.Projection
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.local.SetAvatarURL(gctx, domain.AvatarURL(s.baseURL, record.URL))
	})
	g.Go(func() error {
		return s.local.SetName(gctx, record.Name)
	})
	g.Go(func() error {
		projection = domain.Project(record)
		return nil
	})
	if err := g.Wait(); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.projection = projection
	s.loaded = true
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.publisher.Publish(shared.NewProfileDataReadyEvent(details.StudentID, s.clock())); err != nil {
		s.logger.Warn("failed to publish profile ready", "error", err)
	}

	s.logger.Info("profile loaded",
		"student_id", details.StudentID,
		"duration", time.Since(start),
	)
	return nil
}

func (s *Store) begin() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

// fail records err on the container and returns it as a LoadError.
func (s *Store) fail(err error) error {
	loadErr := domain.NewLoadError(err)
	msg := domain.Message(err)

	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()

	s.logger.Error("profile load failed",
		"kind", domain.Classify(loadErr),
		"error", err,
	)
	return loadErr
}
