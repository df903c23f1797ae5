package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	europeanDecimalRegex = regexp.MustCompile(`^\d{1,3},\d{2}$`)
	decimalPriceRegex    = regexp.MustCompile(`\d+(?:\.\d{1,2})?`)
)

// ExtractPrice normalizes a raw price string and extracts the numeric part.
// Handles US thousands separators ("1,234.56"), European decimal commas
// ("99,99") and bare integers. Returns domain.PriceNA when no price can be
// recognized.
func ExtractPrice(text string) string {
	if strings.TrimSpace(text) == "" {
		return domain.PriceNA
	}

	cleaned := strings.NewReplacer("$", "", "£", "", "€", "", "EUR", "").Replace(text)
	cleaned = strings.TrimSpace(cleaned)

	switch {
	case strings.Contains(cleaned, ",") && strings.Contains(cleaned, "."):
		// Mixed format: 1,234.56 -> 1234.56 (US thousands separator)
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case strings.Contains(cleaned, ","):
		if europeanDecimalRegex.MatchString(cleaned) {
			// European decimal format: 99,99 -> 99.99
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			// US thousands format: 1,234 -> 1234
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	if match := decimalPriceRegex.FindString(cleaned); match != "" {
		return match
	}
	return domain.PriceNA
}

// ParsePrice converts an extracted price string into a float, or nil for the
// NA sentinel and unparseable values.
func ParsePrice(s string) *float64 {
	if s == "" || s == domain.PriceNA {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// CleanTitle collapses runs of whitespace in a product title.
func CleanTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

// CleanAvailability collapses whitespace and maps empty values to "Unknown".
func CleanAvailability(avail string) string {
	cleaned := strings.Join(strings.Fields(avail), " ")
	if cleaned == "" {
		return "Unknown"
	}
	return cleaned
}
