package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/tripforge/marketplace-api/internal/config"
)

// Schema migration runner for the marketplace database (leads,
// itineraries, itinerary_days, itinerary_items, stored_files).
// The target database comes from the same configuration the API
// server reads, so DATABASE_* and DEFAULT_DATABASE overrides apply
// here too.

const defaultMigrationsDir = "./migrations"

func usage() string {
	return `usage: migrate <command> [args]

commands:
  up                 apply all pending migrations
  up-to <version>    apply migrations up to and including <version>
  down               roll back the most recent migration
  down-to <version>  roll back to <version>
  redo               roll back and re-apply the latest migration
  status             print the applied/pending state of each migration
  version            print the current schema version
  create <name>      scaffold a new SQL migration in ` + defaultMigrationsDir
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := os.Args[1:]
	if len(args) == 0 {
		return fmt.Errorf("%s", usage())
	}
	command, arguments := args[0], args[1:]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database %q: %w", cfg.Database.Name, err)
	}

	dir := defaultMigrationsDir
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		dir = v
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			return fmt.Errorf("up failed: %w", err)
		}

	case "up-to":
		version, err := versionArg(arguments)
		if err != nil {
			return err
		}
		if err := goose.UpTo(db, dir, version); err != nil {
			return fmt.Errorf("up-to %d failed: %w", version, err)
		}

	case "down":
		if err := goose.Down(db, dir); err != nil {
			return fmt.Errorf("down failed: %w", err)
		}

	case "down-to":
		version, err := versionArg(arguments)
		if err != nil {
			return err
		}
		if err := goose.DownTo(db, dir, version); err != nil {
			return fmt.Errorf("down-to %d failed: %w", version, err)
		}

	case "redo":
		if err := goose.Redo(db, dir); err != nil {
			return fmt.Errorf("redo failed: %w", err)
		}

	case "status":
		if err := goose.Status(db, dir); err != nil {
			return fmt.Errorf("status failed: %w", err)
		}

	case "version":
		if err := goose.Version(db, dir); err != nil {
			return fmt.Errorf("version failed: %w", err)
		}

	case "create":
		if len(arguments) == 0 {
			return fmt.Errorf("create requires a migration name, e.g. migrate create add_lead_source")
		}
		if err := goose.Create(db, dir, arguments[0], "sql"); err != nil {
			return fmt.Errorf("create failed: %w", err)
		}

	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage())
	}

	return nil
}

func versionArg(arguments []string) (int64, error) {
	if len(arguments) == 0 {
		return 0, fmt.Errorf("a target version is required")
	}
	version, err := strconv.ParseInt(arguments[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", arguments[0], err)
	}
	return version, nil
}
