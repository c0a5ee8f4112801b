package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/ironlog/internal/config"
	"github.com/claude/ironlog/internal/ingest"
	"github.com/claude/ironlog/internal/ingest/alpha"
	"github.com/claude/ironlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	csvPath := flag.String("path", "", "path to an Alpha Progression CSV export (required)")
	dryRun := flag.Bool("dry-run", false, "parse and count without writing to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *csvPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: ironlog-import -config config.yaml -path export.csv [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("failed to open export", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var store storage.Writer
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, cfg.Storage.MigrationsPath); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		db, err := storage.New(ctx, dsn, cfg.Database.MaxConns)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
	case config.DriverSQLite:
		db, err := storage.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			log.Error("failed to open sqlite", "path", cfg.Storage.SQLitePath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
	default:
		log.Error("import needs a database; set storage.driver to postgres or sqlite", "driver", cfg.Storage.Driver)
		os.Exit(1)
	}
	log.Info("database connected", "driver", cfg.Storage.Driver)

	if *dryRun {
		log.Info("DRY RUN mode: no data will be written to the database")
	}

	res, err := alpha.NewProvider(store, log).Ingest(ctx, f, *dryRun)
	if err != nil {
		log.Error("import failed", "error", err)
		printResult(log, res)
		os.Exit(1)
	}

	printResult(log, res)
	log.Info("import complete")
}

func printResult(log *slog.Logger, res *ingest.Result) {
	if res == nil {
		return
	}
	log.Info("import stats",
		"workouts_received", res.WorkoutsReceived,
		"workouts_inserted", res.WorkoutsInserted,
		"workouts_updated", res.WorkoutsUpdated,
		"sets_received", res.SetsReceived,
		"dry_run", res.DryRun,
	)
}
