// Package config handles loading and validating the ozonctl configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/ozon-seller-client/internal/ozon"
)

// Config is the top-level configuration.
type Config struct {
	Ozon       OzonConfig       `yaml:"ozon"`
	Pagination PaginationConfig `yaml:"pagination"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// OzonConfig defines Seller API credentials and the default request context.
type OzonConfig struct {
	ClientID              string        `yaml:"client_id"`
	APIKey                string        `yaml:"api_key"`
	BaseURL               string        `yaml:"base_url"`
	Timeout               time.Duration `yaml:"timeout"`
	Language              string        `yaml:"language"`
	DescriptionCategoryID int64         `yaml:"description_category_id"`
	TypeID                int64         `yaml:"type_id"`
	SkipValidation        bool          `yaml:"skip_validation"`
}

// RequestContext returns the request context described by the config. The
// language must already be valid.
func (o *OzonConfig) RequestContext() ozon.RequestContext {
	lang, _ := ozon.ParseLanguage(o.Language)
	return ozon.RequestContext{
		DescriptionCategoryID: o.DescriptionCategoryID,
		TypeID:                o.TypeID,
		Language:              lang,
	}
}

// PaginationConfig bounds attribute value paging and category fan-out.
type PaginationConfig struct {
	PageSize    int `yaml:"page_size"`
	MaxPages    int `yaml:"max_pages"`
	StallLimit  int `yaml:"stall_limit"`
	Concurrency int `yaml:"concurrency"`
}

// RateLimitConfig defines client-side pacing. A zero daily limit disables the
// daily cap.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// MetricsConfig defines where ozonctl pushes its metrics when a command
// finishes. An empty PushGateway disables pushing.
type MetricsConfig struct {
	PushGateway string `yaml:"pushgateway"`
	Job         string `yaml:"job"`
}

// Default returns a configuration with every default applied and no
// credentials.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation, for callers that overlay flags or
// environment before validating.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyOzonDefaults(&cfg.Ozon)
	applyPaginationDefaults(&cfg.Pagination)
	applyRateLimitDefaults(&cfg.RateLimit)
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
}

func applyOzonDefaults(o *OzonConfig) {
	if o.BaseURL == "" {
		o.BaseURL = ozon.DefaultBaseURL
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Language == "" {
		o.Language = string(ozon.LanguageDefault)
	}
}

func applyPaginationDefaults(p *PaginationConfig) {
	if p.PageSize == 0 {
		p.PageSize = 5000
	}
	if p.MaxPages == 0 {
		p.MaxPages = 10000
	}
	if p.StallLimit == 0 {
		p.StallLimit = 3
	}
	if p.Concurrency == 0 {
		p.Concurrency = 1
	}
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 10
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applyMetricsDefaults(m *MetricsConfig) {
	if m.Job == "" {
		m.Job = "ozonctl"
	}
}

// Validate reports every invalid setting at once.
func (cfg *Config) Validate() error {
	var errs []error

	if cfg.Ozon.ClientID == "" {
		errs = append(errs, errors.New("ozon.client_id is required"))
	}
	if cfg.Ozon.APIKey == "" {
		errs = append(errs, errors.New("ozon.api_key is required"))
	}
	if _, err := ozon.ParseLanguage(cfg.Ozon.Language); err != nil {
		errs = append(errs, fmt.Errorf("ozon.language: %w", err))
	}
	if cfg.Ozon.Timeout < 0 {
		errs = append(errs, errors.New("ozon.timeout must not be negative"))
	}
	if cfg.Pagination.PageSize < 0 {
		errs = append(errs, fmt.Errorf("pagination.page_size must not be negative (got %d)", cfg.Pagination.PageSize))
	}
	if cfg.Pagination.MaxPages < 0 {
		errs = append(errs, fmt.Errorf("pagination.max_pages must not be negative (got %d)", cfg.Pagination.MaxPages))
	}
	if cfg.Pagination.StallLimit < 0 {
		errs = append(errs, fmt.Errorf("pagination.stall_limit must not be negative (got %d)", cfg.Pagination.StallLimit))
	}
	if cfg.Pagination.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("pagination.concurrency must not be negative (got %d)", cfg.Pagination.Concurrency))
	}
	if cfg.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("rate_limit.per_second must not be negative"))
	}
	if cfg.RateLimit.DailyLimit < 0 {
		errs = append(errs, errors.New("rate_limit.daily_limit must not be negative"))
	}

	if gw := cfg.Metrics.PushGateway; gw != "" {
		if u, err := url.Parse(gw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("metrics.pushgateway must be an http(s) URL (got %q)", gw))
		}
	}

	return errors.Join(errs...)
}
