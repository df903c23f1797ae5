package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/domain"
)

// Bot protection phrases shared by all sites, matched against the lowercased
// page body.
var botPhrases = []string{
	"checking your browser",
	"your browser is being checked",
	"ihr browser wird geprüft",
	"cloudflare",
	"bot protection",
	"bot detection",
	"please wait",
	"verifying you are human",
	"captcha",
}

// Profile describes how to extract a product from one site: ordered selector
// lists plus phrase lists for availability classification.
type Profile struct {
	Source                string
	TitleSelectors        []string
	PriceSelectors        []string
	FallbackSelector      string         // broad selector scanned when the ordered list fails
	FallbackHint          *regexp.Regexp // a fallback match must contain this to be considered
	AvailabilitySelectors []string
	OutOfStockPhrases     []string
	InStockPhrases        []string
}

// Config holds scraper-wide settings.
type Config struct {
	ScreenshotDir string
}

// Scraper dispatches product URLs to per-site profiles over a page engine.
// It implements domain.ProductScraper.
type Scraper struct {
	engine        Engine
	profiles      map[string]*Profile
	screenshotDir string
	log           *zap.SugaredLogger
	now           func() time.Time
}

// New creates a scraper with the built-in site profiles registered.
func New(engine Engine, cfg Config, log *zap.Logger) *Scraper {
	s := &Scraper{
		engine:        engine,
		profiles:      make(map[string]*Profile),
		screenshotDir: cfg.ScreenshotDir,
		log:           log.Sugar(),
		now:           time.Now,
	}
	for _, p := range []*Profile{amazonProfile, ebayProfile, etsyProfile} {
		s.profiles[p.Source] = p
	}
	return s
}

// Sources returns the registered site names.
func (s *Scraper) Sources() []string {
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	return names
}

// Scrape loads the product page and extracts an observation. Extraction
// failures never surface as errors; the observation carries the NA price
// sentinel instead so the dashboard can render the gap.
func (s *Scraper) Scrape(ctx context.Context, url, source string) domain.Observation {
	profile, ok := s.profiles[source]
	if !ok {
		s.log.Warnw("unsupported site", "url", url, "source", source)
		return s.failed(url, "Unsupported site")
	}

	s.log.Infow("scraping", "source", source, "url", url)
	page, err := s.engine.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			s.log.Warnw("timeout loading page", "url", url, "error", err)
			return s.failed(url, "Timeout")
		}
		s.log.Warnw("error loading page", "url", url, "error", err)
		return s.failed(url, "Error")
	}
	defer page.Close()

	return s.extract(profile, page, url)
}

func (s *Scraper) extract(profile *Profile, page Page, url string) domain.Observation {
	if body, err := page.HTML(); err == nil {
		lower := strings.ToLower(body)
		for _, phrase := range botPhrases {
			if strings.Contains(lower, phrase) {
				s.log.Warnw("bot protection detected", "source", profile.Source, "url", url)
				return s.failed(url, "Bot Protection Detected")
			}
		}
	}

	title := "Unknown Product"
	for _, sel := range profile.TitleSelectors {
		text, err := page.Text(sel)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		title = CleanTitle(text)
		s.log.Debugw("title found", "selector", sel)
		break
	}

	s.screenshot(profile.Source, page)

	price := domain.PriceNA
	for _, sel := range profile.PriceSelectors {
		text, err := page.Text(sel)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		if p := ExtractPrice(text); p != domain.PriceNA {
			price = p
			s.log.Debugw("price found", "selector", sel, "price", p)
			break
		}
	}

	// Aggressive fallback: scan anything that looks like a price container.
	if price == domain.PriceNA && profile.FallbackSelector != "" {
		texts, err := page.Texts(profile.FallbackSelector)
		if err == nil {
			for _, text := range texts {
				if profile.FallbackHint != nil && !profile.FallbackHint.MatchString(text) {
					continue
				}
				if p := ExtractPrice(text); p != domain.PriceNA {
					price = p
					s.log.Debugw("price found via fallback scan", "price", p)
					break
				}
			}
		}
	}

	if price == domain.PriceNA {
		s.log.Warnw("price not found", "url", url, "product", title)
	}

	availability := s.availability(profile, page)

	return domain.Observation{
		Date:         s.now(),
		Name:         title,
		Price:        price,
		Availability: availability,
		URL:          url,
	}
}

func (s *Scraper) availability(profile *Profile, page Page) string {
	availability := "In Stock"
	for _, sel := range profile.AvailabilitySelectors {
		text, err := page.Text(sel)
		if err != nil || text == "" {
			continue
		}
		lower := strings.ToLower(text)
		if containsAny(lower, profile.OutOfStockPhrases) {
			return "Out of Stock"
		}
		if containsAny(lower, profile.InStockPhrases) {
			return "In Stock"
		}
	}
	return availability
}

// screenshot saves a full-page capture for debugging failed extractions.
func (s *Scraper) screenshot(source string, page Page) {
	if s.screenshotDir == "" {
		return
	}
	if err := os.MkdirAll(s.screenshotDir, 0o755); err != nil {
		s.log.Debugw("cannot create screenshot dir", "dir", s.screenshotDir, "error", err)
		return
	}
	path := filepath.Join(s.screenshotDir, fmt.Sprintf("%s_%s.png", source, s.now().Format("20060102_150405")))
	if err := page.Screenshot(path); err != nil {
		s.log.Debugw("screenshot failed", "path", path, "error", err)
		return
	}
	s.log.Debugw("screenshot saved", "path", path)
}

func (s *Scraper) failed(url, name string) domain.Observation {
	return domain.Observation{
		Date:         s.now(),
		Name:         name,
		Price:        domain.PriceNA,
		Availability: "Unknown",
		URL:          url,
	}
}

func containsAny(s string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(s, phrase) {
			return true
		}
	}
	return false
}
