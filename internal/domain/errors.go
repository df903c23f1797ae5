package domain

import "errors"

var (
	// ErrProductNotFound is returned when a tracked product does not exist
	ErrProductNotFound = errors.New("tracked product not found")

	// ErrDuplicateURL is returned when a URL is already being tracked
	ErrDuplicateURL = errors.New("url is already tracked")

	// ErrUnsupportedSite is returned when no scraper handles a source
	ErrUnsupportedSite = errors.New("unsupported site")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrAlertsNotConfigured is returned when SMTP settings are incomplete
	ErrAlertsNotConfigured = errors.New("email alert credentials not configured")
)
