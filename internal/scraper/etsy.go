package scraper

import "regexp"

var etsyProfile = &Profile{
	Source: "etsy",
	TitleSelectors: []string{
		"h1[data-buy-box-listing-title]",
		"h1.listing-page-title",
		`h1[data-testid="listing-page-title"]`,
		"h1",
	},
	PriceSelectors: []string{
		// Primary buy-box selectors
		`p[data-buy-box-region="price"] span[data-buy-box-region="price"]`,
		`span[data-buy-box-region="price"]`,
		`p[data-buy-box-region="price"]`,

		// Alternative price selectors
		"span.currency-value",
		`div[data-buy-box-region="price"] span`,
		`div[data-component="buybox"] span[data-buy-box-region="price"]`,
		`span[data-buy-box-region="discounted-price"]`,
		`span[data-buy-box-region="regular-price"]`,

		// Generic price selectors
		`[data-testid="price"]`,
		".price",
		".listing-price",
		".buy-box-price",
		`span[class*="price"]`,
		`div[class*="price"]`,

		// Currency selectors
		`span[class*="currency"]`,
		`div[class*="currency"]`,
	},
	FallbackSelector: `[class*="price"], [id*="price"], [class*="Price"], [id*="Price"], [class*="currency"], [id*="currency"]`,
	FallbackHint:     regexp.MustCompile(`\$|€|EUR|£|\d+`),
	AvailabilitySelectors: []string{
		`div[data-buy-box-region="sold-out-message"]`,
		".sold-out-message",
		".unavailable-message",
		`[data-testid="sold-out"]`,
		".listing-unavailable",
	},
	OutOfStockPhrases: []string{
		"sold out",
		"unavailable",
		"out of stock",
		"no longer available",
		"discontinued",
	},
}
