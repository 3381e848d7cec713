package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/nuemind/student-profile/config"
	"github.com/nuemind/student-profile/internal/application/localstore"
	"github.com/nuemind/student-profile/internal/application/profile"
	"github.com/nuemind/student-profile/internal/domain/shared"
	"github.com/nuemind/student-profile/internal/domain/storage"
	"github.com/nuemind/student-profile/internal/infrastructure/external/edu"
	"github.com/nuemind/student-profile/internal/infrastructure/messaging"
	"github.com/nuemind/student-profile/internal/infrastructure/persistence/memory"
	"github.com/nuemind/student-profile/internal/infrastructure/persistence/postgres"
	"github.com/nuemind/student-profile/internal/infrastructure/persistence/redis"
	"github.com/nuemind/student-profile/pkg/logger"
)

// app holds the wired components for one command invocation.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *prometheus.Registry

	cache *redis.Cache
	db    *postgres.Connection

	session storage.Area
	local   *localstore.Store
	bus     shared.EventBus
	edu     *edu.Client
	profile *profile.Store

	closers []func() error
}

// loadConfig reads configuration and installs the default logger.
func loadConfig(opts *rootOptions) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(opts.envFile)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Observability.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}

	log := logger.Setup(logger.Options{
		Level:      level,
		Format:     cfg.Observability.LogFormat,
		Production: cfg.IsProduction(),
		Output:     opts.logOutput,
	})

	return cfg, log, nil
}

// openApp wires storage, the event bus, the education client, the local
// store and the profile loader.
func openApp(ctx context.Context, cfg *config.Config, log *slog.Logger, dedup bool) (_ *app, err error) {
	a := &app{
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONNECTIONS
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.NeedsRedis() {
		if err = a.connectRedis(ctx); err != nil {
			return nil, err
		}
	}
	if cfg.Storage.Backend == config.StoragePostgres {
		if err = a.connectDatabase(ctx); err != nil {
			return nil, err
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. STORAGE AREAS
	// ─────────────────────────────────────────────────────────────────────────
	var localArea storage.Area
	switch cfg.Storage.Backend {
	case config.StorageRedis:
		a.session = redis.NewArea(a.cache, storage.AreaSession)
		localArea = redis.NewArea(a.cache, storage.AreaLocal)
	case config.StoragePostgres:
		a.session = postgres.NewArea(a.db, storage.AreaSession)
		localArea = postgres.NewArea(a.db, storage.AreaLocal)
	default:
		a.session = memory.NewArea()
		localArea = memory.NewArea()
	}
	log.Debug("storage ready", "backend", cfg.Storage.Backend)

	if err = a.seedToken(ctx); err != nil {
		return nil, err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	if err = a.openBus(); err != nil {
		return nil, err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. APPLICATION
	// ─────────────────────────────────────────────────────────────────────────
	eduConfig := edu.DefaultClientConfig(cfg.Edu.BaseURL)
	eduConfig.Timeout = cfg.Edu.RequestTimeout
	eduConfig.TokenSource = edu.SessionTokenSource{Area: a.session}
	eduConfig.Logger = log
	a.edu = edu.NewClient(eduConfig)

	a.local, err = localstore.New(localstore.Config{
		Area:       localArea,
		Publisher:  a.bus,
		Registerer: a.registry,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("create local store: %w", err)
	}

	opts := []profile.Option{
		profile.WithPublisher(a.bus),
		profile.WithRegisterer(a.registry),
		profile.WithLogger(log),
	}
	if dedup {
		opts = append(opts, profile.WithDeduplication())
	}
	a.profile, err = profile.New(a.edu, a.session, a.local, cfg.Edu.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("create profile loader: %w", err)
	}

	return a, nil
}

func (a *app) connectRedis(ctx context.Context) error {
	var (
		cache *redis.Cache
		err   error
	)
	if a.cfg.Redis.URL != "" {
		cache, err = redis.NewCacheFromURL(ctx, a.cfg.Redis.URL)
	} else {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = a.cfg.Redis.Host
		redisCfg.Port = a.cfg.Redis.Port
		redisCfg.Password = a.cfg.Redis.Password
		redisCfg.DB = a.cfg.Redis.DB
		redisCfg.PoolSize = a.cfg.Redis.PoolSize
		redisCfg.MinIdleConns = a.cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = a.cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = a.cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = a.cfg.Redis.WriteTimeout
		cache, err = redis.NewCache(redisCfg)
	}
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	a.cache = cache
	a.closers = append(a.closers, cache.Close)
	a.log.Debug("redis connection established")
	return nil
}

func (a *app) connectDatabase(ctx context.Context) error {
	conn, err := postgres.NewConnectionFromURL(ctx, a.cfg.Database.URL, poolConfig(a.cfg))
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	a.db = conn
	a.closers = append(a.closers, func() error {
		conn.Close()
		return nil
	})

	if !a.cfg.Database.AutoMigrate {
		return nil
	}

	applied, err := postgres.NewMigrator(conn).Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if applied > 0 {
		a.log.Info("migrations applied", "count", applied)
	}
	return nil
}

func poolConfig(cfg *config.Config) postgres.Config {
	dbCfg := postgres.DefaultConfig()
	dbCfg.MaxConns = int32(cfg.Database.MaxConns)
	dbCfg.MinConns = int32(cfg.Database.MinConns)
	dbCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	dbCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	return dbCfg
}

func (a *app) openBus() error {
	metrics, err := messaging.NewEventBusMetrics(a.registry)
	if err != nil {
		return err
	}

	switch a.cfg.Events.Bus {
	case config.EventBusRedis:
		bus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         messaging.NewGoRedisClient(a.cache.Client()),
			ChannelName:    a.cfg.Events.Channel,
			LocalBusConfig: messaging.InMemoryEventBusConfig{Metrics: metrics},
			Logger:         a.log,
		})
		if err != nil {
			return fmt.Errorf("start redis event bus: %w", err)
		}
		a.bus = bus
		a.closers = append([]func() error{bus.Close}, a.closers...)
	default:
		busCfg := messaging.DefaultInMemoryEventBusConfig()
		busCfg.Logger = a.log
		busCfg.Metrics = metrics
		bus := messaging.NewInMemoryEventBus(busCfg)
		a.bus = bus
		a.closers = append([]func() error{bus.Close}, a.closers...)
	}

	return a.bus.SubscribeAll(func(event shared.Event) error {
		a.log.Info("event",
			"type", event.EventType(),
			"aggregate_id", event.AggregateID(),
			"payload", event.Payload(),
		)
		return nil
	})
}

// seedToken copies the configured token into an empty session area.
func (a *app) seedToken(ctx context.Context) error {
	if a.cfg.Edu.Token == "" {
		return nil
	}

	_, ok, err := a.session.Get(ctx, storage.KeyToken)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}
	if ok {
		return nil
	}
	return a.session.Set(ctx, storage.KeyToken, a.cfg.Edu.Token)
}

// dumpMetrics writes the registry in the Prometheus text format.
func (a *app) dumpMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// Close releases the event bus first, then the connections it uses.
func (a *app) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
