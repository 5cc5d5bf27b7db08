// Package postgres persists finished matches in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/seabattle/internal/config"
)

// Pool wraps a pgx connection pool with health-check and lifecycle methods.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool creates a new PostgreSQL connection pool from the given configuration.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a connected Pool or a non-nil error. The pool is ready
// for queries upon successful return.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Health checks that the database is reachable within the given timeout.
//
// Precondition: The pool must not be closed.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool for use by repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}

// MigrationStatus reports the schema version after Migrate.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	// Changed is false when the schema was already current.
	Changed bool
}

// Migrate applies migrations from sourceURL (e.g. "file://migrations") to the
// database at dsn. steps > 0 applies that many up migrations, steps < 0 rolls
// back that many, and 0 applies every pending up migration.
//
// Postcondition: migrate.ErrNoChange is not an error; Changed is false instead.
func Migrate(sourceURL, dsn string, steps int) (MigrationStatus, error) {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return MigrationStatus{}, fmt.Errorf("migrating: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return MigrationStatus{}, fmt.Errorf("reading schema version: %w", verr)
	}
	return MigrationStatus{Version: version, Dirty: dirty, Changed: err == nil}, nil
}

// MigrateDown rolls back every applied migration.
func MigrateDown(sourceURL, dsn string) (MigrationStatus, error) {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	err = m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return MigrationStatus{}, fmt.Errorf("migrating down: %w", err)
	}
	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return MigrationStatus{}, fmt.Errorf("reading schema version: %w", verr)
	}
	return MigrationStatus{Version: version, Dirty: dirty, Changed: err == nil}, nil
}

// isDuplicateKeyError reports whether err carries SQLSTATE 23505 (unique_violation).
func isDuplicateKeyError(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
