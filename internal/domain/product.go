package domain

import "time"

// PriceNA is the sentinel returned when price extraction fails. It is stored
// as a NULL price and surfaced to the dashboard as "NA" instead of an error.
const PriceNA = "NA"

// TrackedProduct is a product URL registered for tracking in the tracker
// database, along with the site it should be scraped from.
type TrackedProduct struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Source    string    `json:"source"` // e.g. "amazon"
	CreatedAt time.Time `json:"created_at"`
}

// Product is a scraped product as stored in the price database. The URL is
// the join key back to the tracker database.
type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PricePoint is a single observation in a product's price history.
// Price is nil when extraction failed on that day.
type PricePoint struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	Date         time.Time `json:"date"`
	Price        *float64  `json:"price"`
	Availability string    `json:"availability"`
}

// Observation is the raw result of one scrape of one product page.
// Price holds the extracted numeric string, or PriceNA on failure.
type Observation struct {
	Date         time.Time `json:"date"`
	Name         string    `json:"product_name"`
	Price        string    `json:"price"`
	Availability string    `json:"availability"`
	URL          string    `json:"url"`
}

// PriceRecord is a price-history row joined with its product, as served to
// the dashboard.
type PriceRecord struct {
	Date         time.Time `json:"date"`
	ProductName  string    `json:"product_name"`
	Price        *float64  `json:"price"`
	Availability string    `json:"availability"`
	URL          string    `json:"url"`
}
