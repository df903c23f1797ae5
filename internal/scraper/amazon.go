package scraper

import "regexp"

// Selector lists are ordered by reliability; the first hit wins.
var amazonProfile = &Profile{
	Source: "amazon",
	TitleSelectors: []string{
		"#productTitle",
		`h1[data-automation-id="product-title"]`,
		"h1.product-title",
		"h1",
	},
	PriceSelectors: []string{
		// Primary price selectors
		"#corePriceDisplay_desktop_feature_div span.a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		"#priceblock_saleprice",

		// Alternative price selectors
		"span.a-price span.a-offscreen",
		"span.a-price-whole",
		".a-price .a-offscreen",
		".a-price-range .a-offscreen",

		// Deal price selectors
		".a-price.a-text-price .a-offscreen",
		".a-price.a-text-price.a-size-base.a-color-secondary .a-offscreen",

		// Kindle and digital price selectors
		"#kindle-price",
		"#digital-list-price",

		// Used/New price selectors
		".a-price.a-text-price.a-size-base.a-color-secondary",
		".a-price.a-text-price.a-size-base.a-color-price",

		// Generic price selectors (last resort)
		"span.a-color-price",
		".a-price",
		`[data-a-color="price"]`,
		".a-price-range",
	},
	FallbackSelector: `[class*="price"], [id*="price"], [data-a-color="price"]`,
	FallbackHint:     regexp.MustCompile(`\$[\d,]+\.?\d*`),
	AvailabilitySelectors: []string{
		"#availability span",
		"#availability",
		".a-color-state",
		`[data-csa-c-type="availability"]`,
		".a-color-success",
		".a-color-error",
	},
	OutOfStockPhrases: []string{
		"out of stock",
		"unavailable",
		"currently unavailable",
		"temporarily out of stock",
		"we don't know when",
		"no longer available",
		"discontinued",
	},
	InStockPhrases: []string{
		"in stock",
		"available",
		"ready to ship",
	},
}
