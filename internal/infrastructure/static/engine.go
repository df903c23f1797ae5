// Package static implements a browserless page-fetch engine: a plain HTTP
// GET parsed with goquery. It shares the scraper.Page contract with the
// browser engine, so site profiles work unchanged, but it cannot run
// JavaScript and so sees only server-rendered markup.
package static

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pricelens/backend/internal/scraper"
)

// Config holds static engine configuration.
type Config struct {
	UserAgent   string
	PageTimeout time.Duration
}

// Engine fetches pages over plain HTTP.
type Engine struct {
	client    *http.Client
	userAgent string
}

// New creates a static engine.
func New(cfg Config) *Engine {
	timeout := cfg.PageTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Engine{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}
}

// Name returns the engine name.
func (e *Engine) Name() string { return "static" }

// Fetch retrieves and parses the page at the given URL.
func (e *Engine) Fetch(ctx context.Context, url string) (scraper.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	return &staticPage{doc: doc}, nil
}

// Close is a no-op; the engine holds no long-lived resources.
func (e *Engine) Close() error { return nil }

type staticPage struct {
	doc *goquery.Document
}

func (p *staticPage) Text(selector string) (string, error) {
	sel := p.doc.Find(selector)
	if sel.Length() == 0 {
		return "", fmt.Errorf("no element matches selector %s", selector)
	}
	return sel.First().Text(), nil
}

func (p *staticPage) Texts(selector string) ([]string, error) {
	var texts []string
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts, nil
}

func (p *staticPage) HTML() (string, error) {
	return p.doc.Html()
}

// Screenshot is a no-op; there is no renderer to capture.
func (p *staticPage) Screenshot(string) error { return nil }

func (p *staticPage) Close() error { return nil }
