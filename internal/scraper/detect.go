package scraper

import (
	"net/url"
	"strings"
)

// DetectSource guesses the site from a product URL's host. Used as a
// fallback when a product is added without an explicit source.
func DetectSource(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "amazon."):
		return "amazon"
	case strings.Contains(host, "ebay."):
		return "ebay"
	case strings.Contains(host, "etsy."):
		return "etsy"
	}
	return ""
}
