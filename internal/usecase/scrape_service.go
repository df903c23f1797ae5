package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/scraper"
)

// ScrapeServiceConfig holds configuration for the scrape service
type ScrapeServiceConfig struct {
	// FetchesPerMin paces page loads so runs stay polite to the sites.
	FetchesPerMin int
}

// ScrapeService runs full scrape cycles: orphan cleanup, per-product page
// scraping, persistence and price-drop alerting.
type ScrapeService struct {
	tracker domain.TrackerRepository
	prices  domain.PriceRepository
	scraper domain.ProductScraper
	alerts  domain.AlertSender
	limiter *rate.Limiter
	log     *zap.SugaredLogger
	now     func() time.Time
}

// alertKey deduplicates alerts within a run, matching one alert per
// (product, old price, new price).
type alertKey struct {
	productID int64
	oldPrice  float64
	newPrice  float64
}

// NewScrapeService creates a scrape service with dependencies.
func NewScrapeService(
	tracker domain.TrackerRepository,
	prices domain.PriceRepository,
	productScraper domain.ProductScraper,
	alerts domain.AlertSender,
	config ScrapeServiceConfig,
	log *zap.Logger,
) *ScrapeService {
	perMin := config.FetchesPerMin
	if perMin <= 0 {
		perMin = 12
	}

	return &ScrapeService{
		tracker: tracker,
		prices:  prices,
		scraper: productScraper,
		alerts:  alerts,
		limiter: rate.NewLimiter(rate.Limit(float64(perMin)/60.0), 1),
		log:     log.Sugar(),
		now:     time.Now,
	}
}

// RunOnce executes a full scrape cycle over every tracked product.
func (s *ScrapeService) RunOnce(ctx context.Context) error {
	tracked, err := s.tracker.List(ctx)
	if err != nil {
		return err
	}

	urls := make([]string, len(tracked))
	for i, t := range tracked {
		urls[i] = t.URL
	}
	if removed, err := s.prices.CleanupOrphans(ctx, urls); err != nil {
		s.log.Errorw("orphan cleanup failed", "error", err)
	} else if removed > 0 {
		s.log.Infow("cleaned up orphaned products", "count", removed)
	}

	if len(tracked) == 0 {
		s.log.Info("no products tracked, nothing to scrape")
		return nil
	}

	results := make([]domain.Observation, 0, len(tracked))
	for _, t := range tracked {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		source := t.Source
		if source == "" {
			source = scraper.DetectSource(t.URL)
		}
		results = append(results, s.scraper.Scrape(ctx, t.URL, source))
	}

	return s.persist(ctx, results)
}

// persist writes observations into the price database and fires drop alerts.
func (s *ScrapeService) persist(ctx context.Context, results []domain.Observation) error {
	alertsEnabled, err := s.tracker.EmailAlertsEnabled(ctx)
	if err != nil {
		s.log.Errorw("cannot read alert toggle, alerts disabled for this run", "error", err)
		alertsEnabled = false
	}

	today := dateOnly(s.now())
	alerted := make(map[alertKey]struct{})

	for _, obs := range results {
		name := scraper.CleanTitle(obs.Name)
		availability := scraper.CleanAvailability(obs.Availability)

		productID, err := s.prices.UpsertProduct(ctx, name, obs.URL)
		if err != nil {
			s.log.Errorw("failed to upsert product", "url", obs.URL, "error", err)
			continue
		}

		price := scraper.ParsePrice(obs.Price)

		prev, err := s.prices.LatestBefore(ctx, productID, today)
		if err != nil {
			s.log.Errorw("failed to read prior price", "product_id", productID, "error", err)
		}

		inserted, err := s.prices.InsertPricePoint(ctx, productID, today, price, availability)
		if err != nil {
			s.log.Errorw("failed to insert price point", "product_id", productID, "error", err)
			continue
		}
		if !inserted {
			s.log.Infow("skipped duplicate entry", "product_id", productID, "date", today.Format("2006-01-02"))
		}

		if alertsEnabled && prev != nil && prev.Price != nil && price != nil && *price < *prev.Price {
			key := alertKey{productID, *prev.Price, *price}
			if _, done := alerted[key]; done {
				continue
			}
			err := s.alerts.SendPriceDrop(name, *prev.Price, *price, obs.URL)
			switch {
			case errors.Is(err, domain.ErrAlertsNotConfigured):
				s.log.Warnw("alerts enabled but SMTP credentials missing, skipping", "product", name)
			case err != nil:
				s.log.Errorw("failed to send price drop alert", "product", name, "error", err)
			default:
				alerted[key] = struct{}{}
			}
		}
	}

	s.log.Infow("scrape cycle complete", "observations", len(results))
	return nil
}

// dateOnly truncates a timestamp to its calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
