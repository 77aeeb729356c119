// Package db embeds the catalog schema migrations.
package db

import "embed"

// Migrations holds the goose SQL migrations under "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory name inside Migrations.
const MigrationsDir = "migrations"
