package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	"bibresolver/internal/app"
	"bibresolver/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	app.SetupLogger(cfg.Log)

	db, closeDB, err := openDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", app.RedactDSN(cfg.DatabaseDSN)).Msg("failed to connect to database")
	}
	defer closeDB()

	fsys, migrationsDir := migrationSource()
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(gooseDialect(cfg.CatalogDriver)); err != nil {
		log.Fatal().Err(err).Msg("unsupported dialect")
	}

	switch *command {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			log.Fatal().Err(err).Msg("failed to rollback migrations")
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			log.Fatal().Err(err).Msg("failed to check migration status")
		}
	case "create":
		if *name == "" {
			log.Fatal().Msg("name is required for 'create' command")
		}
		if fsys != nil {
			log.Fatal().Msg("set MIGRATIONS_DIR to the db/migrations directory to create a migration")
		}
		if err := goose.Create(nil, migrationsDir, *name, "sql"); err != nil {
			log.Fatal().Err(err).Msg("failed to create migration")
		}
		fmt.Printf("Migration created: %s\n", *name)
	default:
		log.Fatal().Str("command", *command).Msg("unknown command, use: up, down, status, create")
	}
}

func openDB(cfg config.Config) (*sql.DB, func(), error) {
	if cfg.CatalogDriver == "sqlite" {
		db, err := sql.Open("sqlite", cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	db := stdlib.OpenDBFromPool(pool)
	return db, func() {
		db.Close()
		pool.Close()
	}, nil
}
