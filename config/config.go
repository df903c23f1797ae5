package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Scraper   ScraperConfig
	Schedule  ScheduleConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds dashboard server configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the paths of the two SQLite databases
type DatabaseConfig struct {
	TrackerPath string `mapstructure:"tracker_path"`
	PricesPath  string `mapstructure:"prices_path"`
}

// ScraperConfig holds browser and page-fetch configuration
type ScraperConfig struct {
	Engine        string        `mapstructure:"engine"` // "browser" or "static"
	Headless      bool          `mapstructure:"headless"`
	BrowserBin    string        `mapstructure:"browser_bin"`
	UserAgent     string        `mapstructure:"user_agent"`
	PageTimeout   time.Duration `mapstructure:"page_timeout"`
	ScreenshotDir string        `mapstructure:"screenshot_dir"`
	FetchesPerMin int           `mapstructure:"fetches_per_min"`
}

// ScheduleConfig holds the scrape schedule
type ScheduleConfig struct {
	DailyAt string `mapstructure:"daily_at"` // "HH:MM", local time
}

// EmailConfig holds SMTP settings for price-drop alerts
type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	To       string `mapstructure:"to"`
}

// RateLimitConfig holds API rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client IP
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings: nested keys map to underscored names,
	// e.g. server.port becomes PRICELENS_SERVER_PORT.
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Database defaults (two files, mirroring tracker.db / prices.db)
	v.SetDefault("database.tracker_path", "tracker.db")
	v.SetDefault("database.prices_path", "prices.db")

	// Scraper defaults
	v.SetDefault("scraper.engine", "browser")
	v.SetDefault("scraper.headless", true)
	v.SetDefault("scraper.browser_bin", "")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36")
	v.SetDefault("scraper.page_timeout", "30s")
	v.SetDefault("scraper.screenshot_dir", "screenshots")
	v.SetDefault("scraper.fetches_per_min", 12)

	// Schedule defaults
	v.SetDefault("schedule.daily_at", "10:00")

	// Email defaults. The empty credential defaults register the keys with
	// viper: Unmarshal only visits known keys, so without them the
	// PRICELENS_EMAIL_* variables would never be read.
	v.SetDefault("email.host", "")
	v.SetDefault("email.port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.to", "")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Scraper.Engine != "browser" && config.Scraper.Engine != "static" {
		return fmt.Errorf("scraper engine must be 'browser' or 'static', got: %s", config.Scraper.Engine)
	}

	if config.Database.TrackerPath == "" || config.Database.PricesPath == "" {
		return fmt.Errorf("database paths must not be empty")
	}

	if _, _, err := ParseDailyAt(config.Schedule.DailyAt); err != nil {
		return fmt.Errorf("invalid schedule.daily_at: %w", err)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// ParseDailyAt parses an "HH:MM" schedule string into hour and minute.
func ParseDailyAt(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	return t.Hour(), t.Minute(), nil
}
