// Package postgres provides a Postgres-backed Persistent Store for
// deployments that outgrow the single-file SQLite default.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/repository/postgres/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// DB wraps the Postgres connection pool.
type DB struct {
	SqlDB *sql.DB
}

var _ domain.Database = (*DB)(nil)

// New opens a Postgres connection pool for the given DSN.
func New(dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending goose migrations from the embedded FS.
func (d *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, d.SqlDB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// KV returns the Persistent Store backed by this database. Writes larger
// than quota bytes are rejected with domain.ErrStorageQuota.
func (d *DB) KV(quota int) domain.KVStore {
	return &kvStore{db: d.SqlDB, quota: quota}
}
