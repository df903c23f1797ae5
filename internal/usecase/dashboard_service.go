package usecase

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
)

// HistoryFilter narrows dashboard queries. Zero values leave a dimension
// unfiltered.
type HistoryFilter struct {
	Products []string
	From     time.Time
	To       time.Time
}

// DashboardService serves price history views for the dashboard.
type DashboardService struct {
	tracker domain.TrackerRepository
	prices  domain.PriceRepository
	log     *zap.SugaredLogger
}

// NewDashboardService creates a dashboard service with dependencies.
func NewDashboardService(
	tracker domain.TrackerRepository,
	prices domain.PriceRepository,
	log *zap.Logger,
) *DashboardService {
	return &DashboardService{tracker: tracker, prices: prices, log: log.Sugar()}
}

// History returns the joined price history restricted to currently tracked
// URLs and the given filter, oldest first.
func (s *DashboardService) History(ctx context.Context, filter HistoryFilter) ([]domain.PriceRecord, error) {
	tracked, err := s.tracker.List(ctx)
	if err != nil {
		return nil, err
	}
	urls := make([]string, len(tracked))
	for i, t := range tracked {
		urls[i] = t.URL
	}

	records, err := s.prices.History(ctx, urls)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(filter.Products))
	for _, p := range filter.Products {
		wanted[p] = struct{}{}
	}

	filtered := records[:0]
	for _, rec := range records {
		if len(wanted) > 0 {
			if _, ok := wanted[rec.ProductName]; !ok {
				continue
			}
		}
		if !filter.From.IsZero() && rec.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && rec.Date.After(filter.To) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered, nil
}

// Latest returns the most recent observation per product.
func (s *DashboardService) Latest(ctx context.Context) ([]domain.PriceRecord, error) {
	records, err := s.History(ctx, HistoryFilter{})
	if err != nil {
		return nil, err
	}

	// History is ordered oldest first, so the last record per product wins.
	index := make(map[string]int)
	latest := make([]domain.PriceRecord, 0)
	for _, rec := range records {
		if i, ok := index[rec.URL]; ok {
			latest[i] = rec
			continue
		}
		index[rec.URL] = len(latest)
		latest = append(latest, rec)
	}
	return latest, nil
}

// WriteCSV streams records as CSV. Missing prices are rendered as the NA
// sentinel, matching the dashboard display.
func (s *DashboardService) WriteCSV(w io.Writer, records []domain.PriceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "product_name", "price", "availability", "url"}); err != nil {
		return err
	}
	for _, rec := range records {
		price := domain.PriceNA
		if rec.Price != nil {
			price = strconv.FormatFloat(*rec.Price, 'f', -1, 64)
		}
		if err := cw.Write([]string{
			rec.Date.Format("2006-01-02"),
			rec.ProductName,
			price,
			rec.Availability,
			rec.URL,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
