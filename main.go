package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"labfit/adapters/postgres"
	"labfit/app"
	internal "labfit/internal"
	"labfit/internal/api"
	"labfit/internal/config"
	"labfit/internal/errors"
	"labfit/internal/rngutil"
	"labfit/internal/testkit"
	"labfit/ports"
)

func main() {
	// Load .env file if present (development convenience)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	repo, err := initRepository(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize report repository: %v", err)
	}

	rng := rngutil.NewSource(cfg.MonteCarlo.Seed)
	svc := app.NewSweepService(repo, rng, logger, cfg.MonteCarlo.Trials)

	server := api.NewServer(svc, repo, logger)
	if err := server.ListenAndServe(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// initRepository connects to PostgreSQL when DATABASE_URL is set, otherwise
// keeps reports in memory for the lifetime of the process.
func initRepository(cfg *config.Config, logger *internal.Logger) (ports.ReportRepository, error) {
	if cfg.Database.URL == "" {
		logger.Info("DATABASE_URL not set, storing fit reports in memory")
		return testkit.NewInMemoryReportRepository(), nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	repo := postgres.NewFitReportRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		return nil, errors.Wrap(err, "failed to ensure fit_reports schema")
	}
	logger.Info("storing fit reports in PostgreSQL")
	return repo, nil
}
