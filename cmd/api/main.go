package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"ethica/adapters/auditstore"
	"ethica/adapters/metrics"
	"ethica/internal/api"
	"ethica/internal/bias"
	"ethica/internal/config"
	"ethica/internal/errors"
	"ethica/internal/logging"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewDefaultLogger()

	store, cleanup, err := auditstore.Open(context.Background(), cfg.Audit.DatabaseURL, cfg.Audit.LogDir)
	if err != nil {
		log.Fatalf("Failed to initialize audit store (%s): %v", errors.GetCode(err), err)
	}
	defer cleanup()

	engine := metrics.NewEngineWithThresholds(cfg.Thresholds)
	detector := bias.NewDetectorWithThresholds(cfg.Thresholds)

	auditApp := api.NewAuditApp(store, logger)
	go func() {
		if err := auditApp.Start(":" + cfg.Server.AuditPort); err != nil {
			log.Fatalf("Audit server failed: %v", err)
		}
	}()

	server := api.NewServer(engine, detector, logger)
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
