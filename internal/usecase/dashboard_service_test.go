package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func price(v float64) *float64 {
	return &v
}

func newDashboardFixture(t *testing.T) (*MockTrackerRepository, *MockPriceRepository, *DashboardService) {
	t.Helper()
	tracker := NewMockTrackerRepository()
	prices := NewMockPriceRepository()
	svc := NewDashboardService(tracker, prices, zap.NewNop())

	ctx := context.Background()
	for _, url := range []string{
		"https://www.amazon.com/dp/B0AAA",
		"https://www.ebay.com/itm/111",
	} {
		if _, err := tracker.Add(ctx, url, ""); err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
	}

	prices.records = []domain.PriceRecord{
		{Date: day(2025, 6, 1), ProductName: "Widget", Price: price(24.99), Availability: "In Stock", URL: "https://www.amazon.com/dp/B0AAA"},
		{Date: day(2025, 6, 1), ProductName: "Gadget", Price: price(5.50), Availability: "In Stock", URL: "https://www.ebay.com/itm/111"},
		{Date: day(2025, 6, 2), ProductName: "Widget", Price: price(19.99), Availability: "In Stock", URL: "https://www.amazon.com/dp/B0AAA"},
		{Date: day(2025, 6, 2), ProductName: "Gadget", Price: nil, Availability: "Unknown", URL: "https://www.ebay.com/itm/111"},
		// No longer tracked; must never surface.
		{Date: day(2025, 6, 2), ProductName: "Stale", Price: price(1.00), Availability: "In Stock", URL: "https://www.etsy.com/listing/99"},
	}
	return tracker, prices, svc
}

func TestDashboardHistory(t *testing.T) {
	tests := []struct {
		name      string
		filter    HistoryFilter
		wantNames []string
	}{
		{
			name:      "unfiltered returns all tracked records",
			filter:    HistoryFilter{},
			wantNames: []string{"Widget", "Gadget", "Widget", "Gadget"},
		},
		{
			name:      "filter by product name",
			filter:    HistoryFilter{Products: []string{"Widget"}},
			wantNames: []string{"Widget", "Widget"},
		},
		{
			name:      "filter by from date",
			filter:    HistoryFilter{From: day(2025, 6, 2)},
			wantNames: []string{"Widget", "Gadget"},
		},
		{
			name:      "filter by to date",
			filter:    HistoryFilter{To: day(2025, 6, 1)},
			wantNames: []string{"Widget", "Gadget"},
		},
		{
			name:      "filter matching nothing",
			filter:    HistoryFilter{Products: []string{"Nope"}},
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, svc := newDashboardFixture(t)

			records, err := svc.History(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("History() failed: %v", err)
			}
			if len(records) != len(tt.wantNames) {
				t.Fatalf("History() returned %d records, want %d", len(records), len(tt.wantNames))
			}
			for i, rec := range records {
				if rec.ProductName != tt.wantNames[i] {
					t.Errorf("records[%d].ProductName = %q, want %q", i, rec.ProductName, tt.wantNames[i])
				}
			}
		})
	}
}

func TestDashboardLatest(t *testing.T) {
	_, _, svc := newDashboardFixture(t)

	latest, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest() failed: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("Latest() returned %d records, want 2", len(latest))
	}

	widget := latest[0]
	if widget.ProductName != "Widget" {
		t.Fatalf("latest[0] = %q, want Widget", widget.ProductName)
	}
	if widget.Price == nil || *widget.Price != 19.99 {
		t.Errorf("Widget latest price = %v, want 19.99", widget.Price)
	}

	gadget := latest[1]
	if gadget.Price != nil {
		t.Errorf("Gadget latest price = %v, want nil", *gadget.Price)
	}
}

func TestDashboardWriteCSV(t *testing.T) {
	_, _, svc := newDashboardFixture(t)

	records, err := svc.History(context.Background(), HistoryFilter{})
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}

	var buf strings.Builder
	if err := svc.WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("CSV has %d lines, want header + 4 rows", len(lines))
	}
	if lines[0] != "date,product_name,price,availability,url" {
		t.Errorf("CSV header = %q", lines[0])
	}
	if want := "2025-06-01,Widget,24.99,In Stock,https://www.amazon.com/dp/B0AAA"; lines[1] != want {
		t.Errorf("CSV row = %q, want %q", lines[1], want)
	}
	if want := "2025-06-02,Gadget,NA,Unknown,https://www.ebay.com/itm/111"; lines[4] != want {
		t.Errorf("CSV row = %q, want %q", lines[4], want)
	}
}
