package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/nexusai/billing/internal/config"
	"github.com/nexusai/billing/internal/logger"
	"github.com/nexusai/billing/internal/postgres"
	"github.com/nexusai/billing/internal/store"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	if *dryRun {
		fmt.Println(postgres.Schema + ";")
		return
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to open postgres", "error", err)
	}
	backend := postgres.NewDocumentStore(db)
	defer backend.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.WaitForBackend(ctx, backend, cfg.Store.ConnectTimeout, logger); err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}

	logger.Info("Running database migrations...")
	if err := backend.Migrate(ctx); err != nil {
		logger.Fatalw("Failed to run migrations", "error", err)
	}
	logger.Info("Migrations completed successfully")
}
