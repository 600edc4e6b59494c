package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kyc-onboarding/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pingTimeout = 5 * time.Second
	pingBackoff = 2 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

// NewConnectionPool opens the pool and waits until the server answers a ping.
func NewConnectionPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty in configuration")
	}

	poolConfig, err := configurePool(cfg)
	if err != nil {
		return nil, err
	}

	logger = logger.With(slog.String("component", "postgres"),
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("db", poolConfig.ConnConfig.Database))
	logger.Info("Opening PostgreSQL connection pool", slog.Int("maxConns", int(poolConfig.MaxConns)))

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := waitForDatabase(ctx, dbpool, cfg.ConnectAttempts, pingBackoff, logger); err != nil {
		dbpool.Close()
		return nil, err
	}

	logger.Info("PostgreSQL connection pool ready")
	return dbpool, nil
}

func configurePool(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.ApplicationName != "" {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	return poolConfig, nil
}

// waitForDatabase pings up to attempts times, sleeping backoff between tries.
// Covers the window where the API starts before Postgres accepts connections.
func waitForDatabase(ctx context.Context, db pinger, attempts int, backoff time.Duration, logger *slog.Logger) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.Ping(pingCtx)
		cancel()
		if lastErr == nil {
			return nil
		}

		logger.Warn("Database ping failed",
			slog.Int("attempt", attempt),
			slog.Int("maxAttempts", attempts),
			slog.Any("error", lastErr))
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up waiting for database: %w", ctx.Err())
		case <-time.After(backoff):
		}
	}

	logger.Error("Database unreachable", slog.Any("error", lastErr))
	return fmt.Errorf("failed to ping database after %d attempts: %w", attempts, lastErr)
}
