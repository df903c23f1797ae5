package scraper

import "context"

// Page is a loaded product page that selectors can be run against. Both the
// browser engine and the static HTTP engine produce one.
type Page interface {
	// Text returns the text content of the first element matching the CSS
	// selector. An error is returned when no element matches.
	Text(selector string) (string, error)

	// Texts returns the text content of every element matching the CSS
	// selector.
	Texts(selector string) ([]string, error)

	// HTML returns the full page markup.
	HTML() (string, error)

	// Screenshot writes a full-page capture to path. Engines without
	// rendering support return nil without writing anything.
	Screenshot(path string) error

	// Close releases the page.
	Close() error
}

// Engine is the interface that all page-fetching engines must implement.
type Engine interface {
	// Fetch retrieves the page at the given URL.
	Fetch(ctx context.Context, url string) (Page, error)

	// Name returns the name of the engine implementation.
	Name() string

	// Close releases engine resources.
	Close() error
}
