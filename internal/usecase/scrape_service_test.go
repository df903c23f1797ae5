package usecase

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pricelens/backend/internal/domain"
)

type scrapeFixture struct {
	tracker *MockTrackerRepository
	prices  *MockPriceRepository
	scraper *MockProductScraper
	alerts  *MockAlertSender
	svc     *ScrapeService
}

func newScrapeFixture(t *testing.T) *scrapeFixture {
	t.Helper()
	f := &scrapeFixture{
		tracker: NewMockTrackerRepository(),
		prices:  NewMockPriceRepository(),
		scraper: NewMockProductScraper(),
		alerts:  NewMockAlertSender(),
	}
	f.svc = NewScrapeService(f.tracker, f.prices, f.scraper, f.alerts, ScrapeServiceConfig{}, zap.NewNop())
	f.svc.limiter = rate.NewLimiter(rate.Inf, 1)
	f.svc.now = func() time.Time {
		return time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	}
	return f
}

func (f *scrapeFixture) track(t *testing.T, url string) {
	t.Helper()
	if _, err := f.tracker.Add(context.Background(), url, ""); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
}

func (f *scrapeFixture) observe(url, name, price string) {
	f.scraper.observations[url] = domain.Observation{
		Date: time.Now(), Name: name, Price: price,
		Availability: "In Stock", URL: url,
	}
}

func (f *scrapeFixture) seedHistory(t *testing.T, url, name string, date time.Time, price float64) {
	t.Helper()
	ctx := context.Background()
	id, err := f.prices.UpsertProduct(ctx, name, url)
	if err != nil {
		t.Fatalf("UpsertProduct() failed: %v", err)
	}
	if _, err := f.prices.InsertPricePoint(ctx, id, date, &price, "In Stock"); err != nil {
		t.Fatalf("InsertPricePoint() failed: %v", err)
	}
}

func TestRunOnceRecordsObservations(t *testing.T) {
	f := newScrapeFixture(t)
	f.track(t, "https://www.amazon.com/dp/B0AAA")
	f.track(t, "https://www.ebay.com/itm/111")
	f.observe("https://www.amazon.com/dp/B0AAA", "Widget", "19.99")
	f.observe("https://www.ebay.com/itm/111", "Gadget", "5.50")

	if err := f.svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}

	if len(f.scraper.scraped) != 2 {
		t.Fatalf("scraped %d urls, want 2", len(f.scraper.scraped))
	}
	if len(f.prices.products) != 2 {
		t.Fatalf("stored %d products, want 2", len(f.prices.products))
	}
	id := f.prices.products["https://www.amazon.com/dp/B0AAA"]
	points := f.prices.history[id]
	if len(points) != 1 {
		t.Fatalf("stored %d price points, want 1", len(points))
	}
	if points[0].Price == nil || *points[0].Price != 19.99 {
		t.Errorf("stored price = %v, want 19.99", points[0].Price)
	}
	wantDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if !points[0].Date.Equal(wantDate) {
		t.Errorf("stored date = %v, want %v", points[0].Date, wantDate)
	}
}

func TestRunOnceStoresNAAsNull(t *testing.T) {
	f := newScrapeFixture(t)
	f.track(t, "https://www.amazon.com/dp/B0AAA")
	f.observe("https://www.amazon.com/dp/B0AAA", "Widget", domain.PriceNA)

	if err := f.svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}

	id := f.prices.products["https://www.amazon.com/dp/B0AAA"]
	points := f.prices.history[id]
	if len(points) != 1 {
		t.Fatalf("stored %d price points, want 1", len(points))
	}
	if points[0].Price != nil {
		t.Errorf("stored price = %v, want nil for NA observation", *points[0].Price)
	}
	if len(f.alerts.sent) != 0 {
		t.Errorf("sent %d alerts, want 0", len(f.alerts.sent))
	}
}

func TestRunOnceSkipsDuplicateDay(t *testing.T) {
	f := newScrapeFixture(t)
	url := "https://www.amazon.com/dp/B0AAA"
	f.track(t, url)
	f.observe(url, "Widget", "19.99")
	f.seedHistory(t, url, "Widget", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), 24.99)

	if err := f.svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}

	id := f.prices.products[url]
	if got := len(f.prices.history[id]); got != 1 {
		t.Errorf("history has %d points, want 1 (same-day observation skipped)", got)
	}
}

func TestRunOnceAlertsOnPriceDrop(t *testing.T) {
	f := newScrapeFixture(t)
	url := "https://www.amazon.com/dp/B0AAA"
	f.track(t, url)
	f.observe(url, "Widget", "15.00")
	f.seedHistory(t, url, "Widget", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 20.00)

	if err := f.svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}

	if len(f.alerts.sent) != 1 {
		t.Fatalf("sent %d alerts, want 1", len(f.alerts.sent))
	}
	if f.alerts.sent[0] != "Widget" {
		t.Errorf("alerted product = %q, want %q", f.alerts.sent[0], "Widget")
	}
}

func TestRunOnceNoAlertOnPriceRise(t *testing.T) {
	f := newScrapeFixture(t)
	url := "https://www.amazon.com/dp/B0AAA"
	f.track(t, url)
	f.observe(url, "Widget", "25.00")
	f.seedHistory(t, url, "Widget", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 20.00)

	if err := f.svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}
	if len(f.alerts.sent) != 0 {
		t.Errorf("sent %d alerts, want 0", len(f.alerts.sent))
	}
}

func TestRunOnceNoAlertWhenDisabled(t *testing.T) {
	f := newScrapeFixture(t)
	f.tracker.alertsEnabled = false
	url := "https://www.amazon.com/dp/B0AAA"
	f.track(t, url)
	f.observe(url, "Widget", "15.00")
	f.seedHistory(t, url, "Widget", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 20.00)

	if err := f.svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}
	if len(f.alerts.sent) != 0 {
		t.Errorf("sent %d alerts, want 0 when alerts are disabled", len(f.alerts.sent))
	}
}

func TestRunOnceToleratesUnconfiguredAlerts(t *testing.T) {
	f := newScrapeFixture(t)
	f.alerts.sendErr = domain.ErrAlertsNotConfigured
	url := "https://www.amazon.com/dp/B0AAA"
	f.track(t, url)
	f.observe(url, "Widget", "15.00")
	f.seedHistory(t, url, "Widget", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 20.00)

	// Alerts enabled but SMTP credentials missing: the cycle still persists
	// the observation and finishes cleanly.
	if err := f.svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}
	if len(f.alerts.sent) != 0 {
		t.Errorf("sent %d alerts, want 0", len(f.alerts.sent))
	}
	id := f.prices.products[url]
	if got := len(f.prices.history[id]); got != 2 {
		t.Errorf("history has %d points, want 2", got)
	}
}

func TestRunOnceAlertsDisabledOnToggleError(t *testing.T) {
	f := newScrapeFixture(t)
	f.tracker.alertsErr = context.DeadlineExceeded
	url := "https://www.amazon.com/dp/B0AAA"
	f.track(t, url)
	f.observe(url, "Widget", "15.00")
	f.seedHistory(t, url, "Widget", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 20.00)

	if err := f.svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}
	if len(f.alerts.sent) != 0 {
		t.Errorf("sent %d alerts, want 0 when the toggle cannot be read", len(f.alerts.sent))
	}
}

func TestRunOnceCleansOrphans(t *testing.T) {
	f := newScrapeFixture(t)
	f.track(t, "https://www.amazon.com/dp/B0AAA")
	f.observe("https://www.amazon.com/dp/B0AAA", "Widget", "19.99")

	if err := f.svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}

	if len(f.prices.cleanupCalls) != 1 {
		t.Fatalf("CleanupOrphans called %d times, want 1", len(f.prices.cleanupCalls))
	}
	got := f.prices.cleanupCalls[0]
	if len(got) != 1 || got[0] != "https://www.amazon.com/dp/B0AAA" {
		t.Errorf("CleanupOrphans urls = %v", got)
	}
}

func TestRunOnceEmptyTracker(t *testing.T) {
	f := newScrapeFixture(t)

	if err := f.svc.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}
	if len(f.scraper.scraped) != 0 {
		t.Errorf("scraped %d urls, want 0", len(f.scraper.scraped))
	}
	// Orphan cleanup still runs so stale products disappear even when the
	// tracker has been emptied.
	if len(f.prices.cleanupCalls) != 1 {
		t.Errorf("CleanupOrphans called %d times, want 1", len(f.prices.cleanupCalls))
	}
}
