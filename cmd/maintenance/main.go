package main

import (
	"context"
	"flag"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"wiki-echo/internal/config"
	"wiki-echo/internal/maintenance"
	"wiki-echo/internal/pkg/logger"
	"wiki-echo/internal/repository"
)

func main() {
	batchSize := flag.Int("batch-size", maintenance.DefaultBatchSize, "rows per batch")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	cfg := config.Load()
	logger.Init(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithTraceID(ctx, "maintenance-"+uuid.NewString())

	if err := run(ctx, cfg, *batchSize); err != nil {
		log.ErrorContext(ctx, "suppression update failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, batchSize int) error {
	primary, err := config.NewDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer primary.Close()

	replica, err := config.NewReplicaDB(cfg, primary)
	if err != nil {
		return fmt.Errorf("failed to connect to replica: %w", err)
	}
	if replica != primary {
		defer replica.Close()
	}

	if err := repository.Migrate(ctx, primary); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	repos := repository.NewRepositories(repository.NewDBFactory(primary, replica))
	resolver := maintenance.NewWikiPageResolver(cfg.WikiAPIURL, cfg.WikiTimeout)

	_, err = maintenance.RunSuppressionUpdate(ctx, primary, replica, repos.UpdateLog, resolver, batchSize, func(msg string) {
		fmt.Fprint(os.Stdout, msg)
	})
	return err
}
