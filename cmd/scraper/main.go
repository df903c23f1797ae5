package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/infrastructure/browser"
	"github.com/pricelens/backend/internal/infrastructure/email"
	"github.com/pricelens/backend/internal/infrastructure/sqlite"
	"github.com/pricelens/backend/internal/infrastructure/static"
	"github.com/pricelens/backend/internal/scheduler"
	"github.com/pricelens/backend/internal/scraper"
	"github.com/pricelens/backend/internal/usecase"
	"github.com/pricelens/backend/pkg/logger"
)

var once bool

var rootCmd = &cobra.Command{
	Use:   "scraper",
	Short: "Scrapes tracked product pages and records price history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().BoolVar(&once, "once", false, "run a single scrape cycle and exit")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("scraper failed: %v", err)
	}
}

func run(ctx context.Context) error {
	// Optional .env for local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zapLog, err := logger.New(cfg.Server.Environment)
	if err != nil {
		return err
	}
	defer zapLog.Sync()
	sugar := zapLog.Sugar()

	trackerDB, err := sqlite.Open(cfg.Database.TrackerPath)
	if err != nil {
		return err
	}
	defer trackerDB.Close()

	pricesDB, err := sqlite.Open(cfg.Database.PricesPath)
	if err != nil {
		return err
	}
	defer pricesDB.Close()

	trackerRepo, err := sqlite.NewTrackerRepository(trackerDB)
	if err != nil {
		return err
	}
	priceRepo, err := sqlite.NewPriceRepository(pricesDB)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg, zapLog)
	if err != nil {
		return err
	}
	defer engine.Close()

	productScraper := scraper.New(engine, scraper.Config{
		ScreenshotDir: cfg.Scraper.ScreenshotDir,
	}, zapLog)

	alertSender := email.NewSender(email.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		To:       cfg.Email.To,
	}, zapLog)

	scrapeService := usecase.NewScrapeService(
		trackerRepo, priceRepo, productScraper, alertSender,
		usecase.ScrapeServiceConfig{FetchesPerMin: cfg.Scraper.FetchesPerMin},
		zapLog,
	)

	if once {
		sugar.Info("running a single scrape cycle")
		return scrapeService.RunOnce(ctx)
	}

	hour, minute, err := config.ParseDailyAt(cfg.Schedule.DailyAt)
	if err != nil {
		return err
	}

	sched := scheduler.New(zapLog)
	err = sched.ScheduleDaily(hour, minute, func() {
		if err := scrapeService.RunOnce(ctx); err != nil {
			sugar.Errorw("scheduled scrape failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	sugar.Infow("starting scheduled scraping", "daily_at", cfg.Schedule.DailyAt)
	sched.Start()
	defer sched.Stop()

	<-ctx.Done()
	sugar.Info("shutting down")
	return nil
}

// newEngine picks the page-fetch engine: a headless browser by default, the
// static HTTP engine when configured for environments without Chromium.
func newEngine(cfg *config.Config, zapLog *zap.Logger) (scraper.Engine, error) {
	if cfg.Scraper.Engine == "static" {
		return static.New(static.Config{
			UserAgent:   cfg.Scraper.UserAgent,
			PageTimeout: cfg.Scraper.PageTimeout,
		}), nil
	}
	return browser.New(browser.Config{
		Headless:    cfg.Scraper.Headless,
		Bin:         cfg.Scraper.BrowserBin,
		UserAgent:   cfg.Scraper.UserAgent,
		PageTimeout: cfg.Scraper.PageTimeout,
	}, zapLog)
}
