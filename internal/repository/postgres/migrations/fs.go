package migrations

import "embed"

// FS holds the goose migration files for the Postgres backend.
//
//go:embed *.sql
var FS embed.FS
