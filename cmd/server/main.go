package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/infrastructure/sqlite"
	"github.com/pricelens/backend/internal/usecase"
	"github.com/pricelens/backend/pkg/logger"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLog, err := logger.New(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLog.Sync()
	sugar := zapLog.Sugar()

	sugar.Infow("starting pricelens backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
	)

	// Open the two databases
	trackerDB, err := sqlite.Open(cfg.Database.TrackerPath)
	if err != nil {
		sugar.Fatalw("failed to open tracker database", "error", err)
	}
	defer trackerDB.Close()

	pricesDB, err := sqlite.Open(cfg.Database.PricesPath)
	if err != nil {
		sugar.Fatalw("failed to open prices database", "error", err)
	}
	defer pricesDB.Close()

	trackerRepo, err := sqlite.NewTrackerRepository(trackerDB)
	if err != nil {
		sugar.Fatalw("failed to initialize tracker repository", "error", err)
	}
	priceRepo, err := sqlite.NewPriceRepository(pricesDB)
	if err != nil {
		sugar.Fatalw("failed to initialize price repository", "error", err)
	}

	// Initialize usecase layer
	trackingService := usecase.NewTrackingService(
		trackerRepo, priceRepo,
		[]string{"amazon", "ebay", "etsy"},
		zapLog,
	)
	dashboardService := usecase.NewDashboardService(trackerRepo, priceRepo, zapLog)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(trackingService, dashboardService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	sugar.Infow("server listening", "addr", addr)

	if err := router.Run(addr); err != nil {
		sugar.Fatalw("failed to start server", "error", err)
	}
}
