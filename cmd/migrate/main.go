package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/contactbook/backend/internal/config"
	"github.com/contactbook/backend/internal/logging"
	"github.com/contactbook/backend/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  up              apply all pending migrations (default)
  down            roll back every migration
  force <version> mark the schema as <version> without running SQL`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("load config failed", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("open db failed", "error", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logging.Fatal("ping db failed", "error", err)
	}

	m, err := newMigrator(db)
	if err != nil {
		logging.Fatal("create migrator failed", "error", err)
	}
	defer func() { _, _ = m.Close() }()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		run("up", m.Up)
	case "down":
		run("down", m.Down)
	case "force":
		if len(os.Args) < 3 {
			usage()
		}
		version, err := strconv.Atoi(os.Args[2])
		if err != nil {
			logging.Fatal("invalid version", "version", os.Args[2], "error", err)
		}
		if err := m.Force(version); err != nil {
			logging.Fatal("force version failed", "version", version, "error", err)
		}
		slog.Info("forced schema version", "version", version)
	default:
		usage()
	}
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("db driver: %w", err)
	}
	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("source driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
}

func run(name string, step func() error) {
	if err := step(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("no migrations to apply", "command", name)
			return
		}
		logging.Fatal("migration failed", "command", name, "error", err)
	}
	slog.Info("migrations completed", "command", name)
}
