package main

import (
	"io/fs"
	"os"

	"bibresolver/db"
)

// migrationSource returns the filesystem and directory goose reads from.
// MIGRATIONS_DIR switches from the embedded migrations to a directory on
// disk, which is where 'create' writes new files.
func migrationSource() (fs.FS, string) {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return nil, v
	}
	return db.Migrations, db.MigrationsDir
}

func gooseDialect(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}
