package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cityguide-blog-api/internal/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

// Postgres often comes up after the API container; New retries the first ping.
const (
	pingAttempts = 5
	pingTimeout  = 5 * time.Second
	pingBackoff  = time.Second
)

// DB wraps the article store connection pool
type DB struct {
	*sql.DB
	log zerolog.Logger
}

// New opens the pool and waits until PostgreSQL answers a ping
func New(cfg *config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	pool, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.MaxLifetime)

	db := Wrap(pool, log)
	if err := db.waitReady(); err != nil {
		pool.Close()
		return nil, err
	}

	db.log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Connected to article store")
	return db, nil
}

// Wrap adopts an existing pool, e.g. a sqlmock handle in tests
func Wrap(pool *sql.DB, log zerolog.Logger) *DB {
	return &DB{
		DB:  pool,
		log: log.With().Str("component", "database").Logger(),
	}
}

func (db *DB) waitReady() error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			return nil
		}
		db.log.Warn().Err(err).Int("attempt", attempt).Msg("Postgres not ready")
		if attempt < pingAttempts {
			time.Sleep(time.Duration(attempt) * pingBackoff)
		}
	}
	return fmt.Errorf("ping postgres after %d attempts: %w", pingAttempts, err)
}

func (db *DB) migrator(dir string) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("load migrations from %s: %w", dir, err)
	}
	return m, nil
}

// Migrate applies pending migrations (articles, admins, contacts, settings)
// and returns the resulting schema version
func (db *DB) Migrate(dir string) (uint, error) {
	m, err := db.migrator(dir)
	if err != nil {
		return 0, err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}

	db.log.Info().Uint("version", version).Msg("Schema up to date")
	return version, nil
}

// Rollback reverts the last steps migrations
func (db *DB) Rollback(dir string, steps int) error {
	if steps < 1 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	m, err := db.migrator(dir)
	if err != nil {
		return err
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back %d migrations: %w", steps, err)
	}

	db.log.Warn().Int("steps", steps).Msg("Migrations rolled back")
	return nil
}

// HealthCheck pings the store; used by /health
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}
