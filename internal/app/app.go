package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"

	"github.com/vivandoshi08/cheesycareApp/external/nexus"
	"github.com/vivandoshi08/cheesycareApp/external/tba"
	"github.com/vivandoshi08/cheesycareApp/internal/config"
	"github.com/vivandoshi08/cheesycareApp/internal/infrastructure/repository/postgres"
	"github.com/vivandoshi08/cheesycareApp/internal/interfaces/httpapi"
	"github.com/vivandoshi08/cheesycareApp/internal/platform/logging"
	"github.com/vivandoshi08/cheesycareApp/internal/platform/resilience"
	"github.com/vivandoshi08/cheesycareApp/internal/usecase"
)

// NewHTTPServer wires the full service: database, feed clients, scheduler
// and query services, and the HTTP router. The returned cleanup releases
// the database handle and must be called after the server stops.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	appLogger := logging.Default()

	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	eventRepo := postgres.NewEventRepository(db)
	teamRepo := postgres.NewTeamRepository(db)

	bracketClient := tba.NewClient(tba.ClientConfig{
		BaseURL:    cfg.TBABaseURL,
		APIKey:     cfg.TBAAPIKey,
		Timeout:    cfg.TBATimeout,
		MaxRetries: cfg.TBAMaxRetries,
		Logger:     appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.TBACircuitEnabled,
			FailureThreshold: cfg.TBACircuitFailureCount,
			OpenTimeout:      cfg.TBACircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.TBACircuitHalfOpenMaxReq,
		},
	})

	liveClient := nexus.NewClient(nexus.ClientConfig{
		BaseURL: cfg.NexusBaseURL,
		APIKey:  cfg.NexusAPIKey,
		Timeout: cfg.NexusTimeout,
		Logger:  appLogger,
	})

	schedulerSvc := usecase.NewMatchSchedulerService(
		bracketClient,
		liveClient,
		eventRepo,
		teamRepo,
		usecase.MatchSchedulerConfig{
			FocusTeamKey: cfg.FocusTeamKey,
			MaxWorkers:   cfg.SchedulerMaxWorkers,
		},
		appLogger,
	)
	eventQuerySvc := usecase.NewEventQueryService(eventRepo, teamRepo)

	handler := httpapi.NewHandler(schedulerSvc, eventQuerySvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	cleanup := func(context.Context) error {
		return db.Close()
	}

	return server, cleanup, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
