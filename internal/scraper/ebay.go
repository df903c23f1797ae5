package scraper

import "regexp"

var ebayProfile = &Profile{
	Source: "ebay",
	TitleSelectors: []string{
		"h1",
		`h1[data-testid="x-item-title"]`,
		"h1.x-item-title__mainTitle",
		".x-item-title__mainTitle",
	},
	PriceSelectors: []string{
		"span.ux-textspans", // current listing price markup
		"span#prcIsum",
		"span#mm-saleDscPrc",
		`span[itemprop="price"]`,
		"span.s-item__price",
		"div.x-price-approx__price",
		"div.x-price-approx__value",
		"span.display-price",
		`span[itemprop="lowPrice"]`,
		`span[itemprop="highPrice"]`,
		`span[itemprop="offers"]`,
		`div[itemprop="offers"] span`,

		// Additional selectors for better coverage
		".x-price-primary .ux-textspans",
		".x-price-primary span",
		".x-price-approx__price .ux-textspans",
		".x-price-approx__value .ux-textspans",
		`[data-testid="x-price-primary"] .ux-textspans`,
		`[data-testid="x-price-primary"] span`,
	},
	FallbackSelector: `[class*="price"], [id*="price"], [class*="Price"], [id*="Price"]`,
	FallbackHint:     regexp.MustCompile(`\$|€|EUR|£`),
	AvailabilitySelectors: []string{
		"span#qtySubTxt",
		".x-item-condition__availability",
		`[data-testid="availability"]`,
		".s-item__availability",
	},
	OutOfStockPhrases: []string{
		"out of stock",
		"unavailable",
		"sold out",
		"no longer available",
	},
}
