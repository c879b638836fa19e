package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/LockhartNox/crypto-dashboard/internal/model"
)

// Asset describes one entry of the configured crypto universe.
// Logo is rendering-only metadata and never reaches core logic.
type Asset struct {
	Name   string `yaml:"name"`
	Ticker string `yaml:"ticker"`
	Color  string `yaml:"color"`
	Logo   string `yaml:"logo"`
}

// Currency is a display currency: a multiplier applied to native USD quotes
// plus the symbol shown next to converted values.
type Currency struct {
	Rate   float64 `yaml:"rate"`
	Symbol string  `yaml:"symbol"`
}

// Config holds all application configuration.
type Config struct {
	Universe   []Asset             `yaml:"universe"`
	Currencies map[string]Currency `yaml:"currencies"`
	DataSource struct {
		Kind       string `yaml:"kind"` // "yahoo" or "sqlite"
		SQLitePath string `yaml:"sqlite_path"`
		Proxy      string `yaml:"proxy"`
		StartDate  string `yaml:"start_date"`
	} `yaml:"data_source"`
	Cache struct {
		TTL string `yaml:"ttl"` // Go duration, "0" caches for the process lifetime
	} `yaml:"cache"`
	Forecast struct {
		Workers        int `yaml:"workers"`
		DefaultHorizon int `yaml:"default_horizon"`
	} `yaml:"forecast"`
	RefreshCron string `yaml:"refresh_cron"`

	byTicker map[model.Ticker]Asset
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file yields the built-in defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.DataSource.Kind = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.DataSource.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		cfg.Cache.TTL = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.RefreshCron = v
	}

	applyDefaults(cfg)

	cfg.byTicker = make(map[model.Ticker]Asset, len(cfg.Universe))
	for _, a := range cfg.Universe {
		cfg.byTicker[model.Ticker(a.Ticker)] = a
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Universe) == 0 {
		cfg.Universe = DefaultUniverse()
	}
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = DefaultCurrencies()
	}
	if cfg.DataSource.Kind == "" {
		cfg.DataSource.Kind = "yahoo"
	}
	if cfg.DataSource.StartDate == "" {
		cfg.DataSource.StartDate = "2015-01-01"
	}
	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = "0"
	}
	if cfg.Forecast.Workers == 0 {
		cfg.Forecast.Workers = 4
	}
	if cfg.Forecast.DefaultHorizon == 0 {
		cfg.Forecast.DefaultHorizon = 7
	}
	if cfg.RefreshCron == "" {
		cfg.RefreshCron = "0 */15 * * * *"
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if len(c.Universe) == 0 {
		return fmt.Errorf("universe must not be empty")
	}
	seen := make(map[string]bool, len(c.Universe))
	for _, a := range c.Universe {
		if a.Ticker == "" {
			return fmt.Errorf("universe entry %q has no ticker", a.Name)
		}
		if seen[a.Ticker] {
			return fmt.Errorf("duplicate ticker %q in universe", a.Ticker)
		}
		seen[a.Ticker] = true
	}
	for code, cur := range c.Currencies {
		if cur.Rate <= 0 {
			return fmt.Errorf("currency %q: rate must be positive", code)
		}
	}
	switch c.DataSource.Kind {
	case "yahoo":
	case "sqlite":
		if c.DataSource.SQLitePath == "" {
			return fmt.Errorf("data_source.sqlite_path is required for the sqlite source")
		}
	default:
		return fmt.Errorf("unknown data source kind %q", c.DataSource.Kind)
	}
	if _, err := time.Parse("2006-01-02", c.DataSource.StartDate); err != nil {
		return fmt.Errorf("data_source.start_date: %w", err)
	}
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("cache.ttl: %w", err)
	}
	if c.Forecast.Workers < 1 {
		return fmt.Errorf("forecast.workers must be at least 1")
	}
	return nil
}

// Asset returns the universe entry for ticker. The boolean is false for
// tickers outside the configured universe.
func (c *Config) Asset(ticker model.Ticker) (Asset, bool) {
	a, ok := c.byTicker[ticker]
	return a, ok
}

// Tickers returns the ticker identifiers of the universe in configured order.
func (c *Config) Tickers() []model.Ticker {
	out := make([]model.Ticker, len(c.Universe))
	for i, a := range c.Universe {
		out[i] = model.Ticker(a.Ticker)
	}
	return out
}

// Names returns the ticker to display-name index, built once at load.
func (c *Config) Names() map[model.Ticker]string {
	out := make(map[model.Ticker]string, len(c.byTicker))
	for t, a := range c.byTicker {
		out[t] = a.Name
	}
	return out
}

// StartDate returns the parsed fetch start date. Validate guarantees the
// format, so parse errors here fall back to the 2015-01-01 default.
func (c *Config) StartDate() time.Time {
	d, err := time.Parse("2006-01-02", c.DataSource.StartDate)
	if err != nil {
		return time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return d
}

// CacheTTL returns the parsed cache TTL; 0 means cache for the process lifetime.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0
	}
	return d
}
