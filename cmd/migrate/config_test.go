package main

import (
	"os"
	"testing"

	"bibresolver/db"
)

func TestMigrationSource_EnvOverride(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "/custom/migrations")

	fsys, dir := migrationSource()
	if fsys != nil || dir != "/custom/migrations" {
		t.Fatalf("expected MIGRATIONS_DIR override, got %v %q", fsys, dir)
	}
}

func TestMigrationSource_Embedded(t *testing.T) {
	_ = os.Unsetenv("MIGRATIONS_DIR")

	fsys, dir := migrationSource()
	if fsys == nil || dir != db.MigrationsDir {
		t.Fatalf("expected embedded migrations, got %q", dir)
	}
}

func TestGooseDialect(t *testing.T) {
	if got := gooseDialect("sqlite"); got != "sqlite3" {
		t.Fatalf("sqlite dialect: got %q", got)
	}
	if got := gooseDialect("pgx"); got != "postgres" {
		t.Fatalf("pgx dialect: got %q", got)
	}
}
