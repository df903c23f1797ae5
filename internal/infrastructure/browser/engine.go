// Package browser implements the page-fetch engine on top of a headless
// Chromium controlled through go-rod.
package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/scraper"
)

// stealthJS masks the most common headless-browser fingerprints that
// trigger e-commerce bot detection.
const stealthJS = `
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
	Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
	Object.defineProperty(navigator, 'platform', { get: () => 'Win32' });
	window.chrome = { runtime: {} };
`

// Config holds browser engine configuration.
type Config struct {
	Headless    bool
	Bin         string // explicit Chromium binary; auto-detected when empty
	UserAgent   string
	PageTimeout time.Duration
}

// Engine owns a shared browser instance; each Fetch opens a fresh page.
type Engine struct {
	browser *rod.Browser
	cfg     Config
	log     *zap.SugaredLogger
}

// New launches (or attaches to) a Chromium instance.
func New(cfg Config, log *zap.Logger) (*Engine, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true).
		Leakless(false)

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	} else if _, err := os.Stat("/usr/bin/chromium-browser"); err == nil {
		// Containers ship a system Chromium; prefer it over downloading one.
		l = l.Bin("/usr/bin/chromium-browser")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	log.Sugar().Infow("browser ready", "control_url", controlURL, "headless", cfg.Headless)

	return &Engine{browser: b, cfg: cfg, log: log.Sugar()}, nil
}

// Name returns the engine name.
func (e *Engine) Name() string { return "browser" }

// Fetch opens a new page, applies the stealth overrides and navigates to the
// URL. The page is returned after the load event (best effort).
func (e *Engine) Fetch(ctx context.Context, url string) (scraper.Page, error) {
	page, err := e.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	page = page.Context(ctx)
	if e.cfg.PageTimeout > 0 {
		page = page.Timeout(e.cfg.PageTimeout)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		e.log.Debugw("failed to set viewport", "error", err)
	}

	if e.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: e.cfg.UserAgent}); err != nil {
			e.log.Debugw("failed to set user agent", "error", err)
		}
	}

	if _, err := page.EvalOnNewDocument(stealthJS); err != nil {
		e.log.Debugw("failed to install stealth overrides", "error", err)
	}

	if err := page.Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	// Some sites never reach a quiet network; proceed with whatever loaded.
	if err := page.WaitLoad(); err != nil {
		e.log.Debugw("load event timeout, continuing anyway", "url", url, "error", err)
	}

	return &rodPage{page: page}, nil
}

// Close shuts the shared browser down.
func (e *Engine) Close() error {
	return e.browser.Close()
}
