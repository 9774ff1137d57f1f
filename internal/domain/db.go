package domain

import "context"

// Database defines lifecycle operations for a Persistent Store backend.
// Each implementation (SQLite, Postgres) owns its own migration files and
// strategy, so the whole backend can be swapped by configuration.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
