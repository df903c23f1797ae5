package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/scraper"
)

// TrackingService manages the catalog of tracked product URLs and the
// global alert toggle.
type TrackingService struct {
	tracker domain.TrackerRepository
	prices  domain.PriceRepository
	sources map[string]struct{}
	log     *zap.SugaredLogger
}

// NewTrackingService creates a tracking service restricted to the given
// scrapeable sources.
func NewTrackingService(
	tracker domain.TrackerRepository,
	prices domain.PriceRepository,
	sources []string,
	log *zap.Logger,
) *TrackingService {
	set := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		set[s] = struct{}{}
	}
	return &TrackingService{
		tracker: tracker,
		prices:  prices,
		sources: set,
		log:     log.Sugar(),
	}
}

// Add registers a product URL for tracking. When source is empty it is
// detected from the URL host.
func (s *TrackingService) Add(ctx context.Context, url, source string) (int64, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return 0, domain.ErrInvalidRequest
	}

	if source == "" {
		source = scraper.DetectSource(url)
	}
	if _, ok := s.sources[source]; !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnsupportedSite, source)
	}

	id, err := s.tracker.Add(ctx, url, source)
	if err != nil {
		return 0, err
	}
	s.log.Infow("tracking product", "id", id, "source", source, "url", url)
	return id, nil
}

// List returns all tracked products, newest first.
func (s *TrackingService) List(ctx context.Context) ([]domain.TrackedProduct, error) {
	return s.tracker.List(ctx)
}

// Delete removes a tracked product and cascades into the price database,
// deleting the scraped product and its history by URL. A cascade failure is
// logged but does not fail the delete; the next scrape run's orphan cleanup
// will retry it.
func (s *TrackingService) Delete(ctx context.Context, id int64) error {
	product, err := s.tracker.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tracker.Delete(ctx, id); err != nil {
		return err
	}

	removed, err := s.prices.DeleteByURL(ctx, product.URL)
	if err != nil {
		s.log.Errorw("cascade delete failed, orphan cleanup will retry", "url", product.URL, "error", err)
		return nil
	}
	s.log.Infow("deleted tracked product", "id", id, "url", product.URL, "history_rows", removed)
	return nil
}

// AlertsEnabled reports the global email-alert toggle.
func (s *TrackingService) AlertsEnabled(ctx context.Context) (bool, error) {
	return s.tracker.EmailAlertsEnabled(ctx)
}

// SetAlerts stores the global email-alert toggle.
func (s *TrackingService) SetAlerts(ctx context.Context, enabled bool) error {
	if err := s.tracker.SetEmailAlerts(ctx, enabled); err != nil {
		return err
	}
	s.log.Infow("email alerts toggled", "enabled", enabled)
	return nil
}
