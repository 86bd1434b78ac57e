package postgres

import "embed"

// MigrationFiles holds the embedded goose migration scripts.
//
//go:embed migrations/*.sql
var MigrationFiles embed.FS
