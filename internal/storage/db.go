// Package storage persists parsed PRs and per-user program lists in
// Postgres. DB is the shared pool handle; the PR and program repository
// methods live alongside it in prs.go and program.go.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

// connectTimeout bounds each dial attempt so a bad DSN fails fast at
// startup instead of hanging in Ping.
const connectTimeout = 10 * time.Second

// DB is the Postgres handle shared by the PR and program repositories.
type DB struct {
	Pool *pgxpool.Pool
}

// New opens a connection pool for dsn and verifies connectivity before
// returning it. Pool sizing stays at pgx defaults; the PR workload is a
// handful of short statements per chat message.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	cfg.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations brings the prs and program_exercises schema up to date
// from the numbered migration files in migrationsPath. An already
// current schema is not an error.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
