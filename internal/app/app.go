// Package app assembles the resolver from configuration. Both the HTTP
// server and the command line tool start from here.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"bibresolver/internal/bib"
	"bibresolver/internal/catalog"
	"bibresolver/internal/config"
	"bibresolver/internal/holdings"
	"bibresolver/internal/metrics"
	"bibresolver/internal/platform/openlibrary"
	"bibresolver/internal/resolve"
	"bibresolver/internal/store"
	"bibresolver/internal/z3950"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// App is a wired resolver plus the handles needed to probe and release
// its catalog connection.
type App struct {
	Service *resolve.Service
	ping    func(context.Context) error
	close   func()
}

// Ping checks that the catalog store answers.
func (a *App) Ping(ctx context.Context) error {
	return a.ping(ctx)
}

// Close releases the catalog connection.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// SetupLogger configures the global zerolog logger.
func SetupLogger(cfg config.Log) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// New opens the catalog store named by cfg and wires the full pipeline.
// rec may be nil.
func New(ctx context.Context, cfg config.Config, rec metrics.Recorder) (*App, error) {
	gw, ping, closeFn, err := openGateway(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo := catalog.NewRepo(gw)
	transport := z3950.NewSRUTransport(cfg.Z3950.RPS, cfg.Z3950.Timeout)
	adapter := z3950.NewAdapter(cfg.Z3950, transport, rec)
	aggregator := holdings.NewAggregator(catalog.NewSource(repo), adapter, cfg)

	var enricher resolve.Enricher
	if cfg.OpenLibrary.Enabled {
		client, err := openlibrary.NewClient(cfg.OpenLibrary.UserAgent, cfg.OpenLibrary.RPS, 2, cfg.OpenLibrary.CacheSize)
		if err != nil {
			closeFn()
			return nil, err
		}
		enricher = client
	}

	svc := resolve.NewService(
		bib.NewResolver(repo, cfg.Libraries),
		bib.NewExpander(repo, cfg.Libraries),
		aggregator,
		enricher,
		cfg,
		rec,
	)
	return &App{Service: svc, ping: ping, close: closeFn}, nil
}

func openGateway(ctx context.Context, cfg config.Config) (store.Gateway, func(context.Context) error, func(), error) {
	switch cfg.CatalogDriver {
	case "pgx":
		pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("cannot create db pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("cannot ping database (%s): %w", RedactDSN(cfg.DatabaseDSN), err)
		}
		log.Info().Str("driver", "pgx").Msg("database connection OK")
		return store.NewPGXGateway(pool, cfg.DBTimeout), pool.Ping, pool.Close, nil

	case "sqlite":
		db, err := sqlx.Open("sqlite", cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("cannot open sqlite catalog: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("cannot ping sqlite catalog: %w", err)
		}
		log.Info().Str("driver", "sqlite").Msg("database connection OK")
		return store.NewSQLXGateway(db, store.DialectSQLite, cfg.DBTimeout), db.PingContext, func() { db.Close() }, nil
	}
	return nil, nil, nil, fmt.Errorf("unsupported catalog driver %q", cfg.CatalogDriver)
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
