package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/task-api/internal/api/middleware"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/events"
	"github.com/phrazzld/task-api/internal/metrics"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/ratelimit"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
)

// healthPingTimeout bounds a single /health database ping.
const healthPingTimeout = 2 * time.Second

// application holds the shared dependencies and owns their cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	metrics *metrics.Metrics
	limiter *ratelimit.Limiter
	emitter *events.InMemoryEventEmitter
	tasks   service.TaskService
	health  *postgres.HealthChecker

	redis *redis.Client
	kafka *kgo.Client
}

// newApplication wires stores, services and infrastructure clients.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(reg)

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.emitter.RegisterHandler(events.NewLogHandler(logger))
	app.emitter.RegisterHandler(app.metrics)
	if brokers := cfg.Events.Brokers(); len(brokers) > 0 {
		client, err := events.NewKafkaClient(brokers, cfg.Events.KafkaTopic)
		if err != nil {
			return nil, err
		}
		app.kafka = client
		app.emitter.RegisterHandler(events.NewKafkaPublisher(client, cfg.Events.KafkaTopic, logger))
		logger.Info("kafka task event publisher enabled",
			slog.Any("brokers", brokers),
			slog.String("topic", cfg.Events.KafkaTopic))
	}

	store := postgres.NewPostgresTaskStore(db, logger,
		postgres.WithOperationTimeout(cfg.Database.AcquireTimeout))

	var err error
	app.tasks, err = service.NewTaskService(store, app.emitter, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.health = postgres.NewHealthChecker(db, healthPingTimeout, logger)

	if cfg.RateLimit.Enabled {
		app.limiter = app.newLimiter(ctx)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// newLimiter builds the rate limiter over the configured counter backend.
func (app *application) newLimiter(ctx context.Context) *ratelimit.Limiter {
	cfg := app.config.RateLimit

	var store ratelimit.CounterStore
	switch cfg.Backend {
	case config.BackendRedis:
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			// Counters fail open, so an unreachable Redis only weakens limiting.
			app.logger.Warn("redis unavailable at startup, rate limits will not be enforced until it recovers",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()))
		}
		store = ratelimit.NewRedisStore(app.redis, "taskapi:ratelimit:")
	default:
		store = ratelimit.NewMemoryStore()
	}

	rules := make([]ratelimit.Rule, 0, len(cfg.Rules))
	for name, rc := range cfg.Rules {
		rules = append(rules, ratelimit.Rule{Name: name, Limit: rc.Limit, Window: rc.Window})
	}

	return ratelimit.NewLimiter(store, rules,
		ratelimit.WithRetryAfterFloor(cfg.RetryAfterFloor),
		ratelimit.WithLogger(app.logger))
}

// routerDeps returns what the router needs from the application.
func (app *application) routerDeps() routerDeps {
	return routerDeps{
		Tasks:       app.tasks,
		Health:      app.health,
		Metrics:     app.metrics,
		Version:     app.config.App.Version,
		Environment: app.config.Server.Environment,
		Logger:      app.logger,
		Pipeline: middleware.PipelineConfig{
			Logger:          app.logger,
			SecurityHeaders: app.config.Security.HeadersEnabled,
			Production:      app.config.IsProduction(),
			MaxBodyBytes:    app.config.Security.MaxBodyBytes,
			CORS: middleware.CORSConfig{
				Origins:          app.config.CORSOrigins(),
				AllowCredentials: app.config.CORS.AllowCredentials,
			},
			Limiter: app.limiter,
			Metrics: app.metrics,
		},
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if app.limiter != nil {
		go app.limiter.RunJanitor(ctx, app.config.RateLimit.JanitorInterval)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:      newRouter(app.routerDeps()),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}
	return serve(ctx, srv, app.config.Server.ShutdownTimeout, app.logger)
}

// cleanup releases infrastructure clients and the database pool.
func (app *application) cleanup() {
	if app.kafka != nil {
		app.kafka.Close()
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
