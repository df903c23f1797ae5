package domain

import (
	"context"
	"time"
)

// TrackerRepository defines persistence for tracked product URLs and the
// global settings table (tracker database).
type TrackerRepository interface {
	Add(ctx context.Context, url, source string) (int64, error)
	List(ctx context.Context) ([]TrackedProduct, error)
	Get(ctx context.Context, id int64) (*TrackedProduct, error)
	Delete(ctx context.Context, id int64) error
	EmailAlertsEnabled(ctx context.Context) (bool, error)
	SetEmailAlerts(ctx context.Context, enabled bool) error
}

// PriceRepository defines persistence for scraped products and their price
// history (price database).
type PriceRepository interface {
	UpsertProduct(ctx context.Context, name, url string) (int64, error)
	// InsertPricePoint records an observation for a product on a calendar
	// date. Returns false without error when the product already has an
	// observation for that date.
	InsertPricePoint(ctx context.Context, productID int64, date time.Time, price *float64, availability string) (bool, error)
	// LatestBefore returns the most recent observation strictly before the
	// given date, or nil when the product has no prior history.
	LatestBefore(ctx context.Context, productID int64, date time.Time) (*PricePoint, error)
	// DeleteByURL removes a product and its history. Returns the number of
	// history rows removed.
	DeleteByURL(ctx context.Context, url string) (int64, error)
	// CleanupOrphans removes products (and their history) whose URL is no
	// longer in trackedURLs. Returns the number of products removed.
	CleanupOrphans(ctx context.Context, trackedURLs []string) (int, error)
	// History returns observations joined with products, restricted to
	// URLs still present in trackedURLs, ordered by date.
	History(ctx context.Context, trackedURLs []string) ([]PriceRecord, error)
}

// ProductScraper fetches a product page and extracts an observation.
// Implementations never fail on extraction problems; they return an
// NA-priced observation instead.
type ProductScraper interface {
	Scrape(ctx context.Context, url, source string) Observation
}

// AlertSender delivers price-drop notifications.
type AlertSender interface {
	SendPriceDrop(productName string, oldPrice, newPrice float64, url string) error
}
