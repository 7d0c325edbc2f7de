package main

import "errors"

// KnownMetrics is the set of metric names exported by the Ozon client plus
// the recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// Seller API calls.
	"ozon_api_requests_total":           true,
	"ozon_api_request_duration_seconds": true,
	"ozon_api_transport_errors_total":   true,

	// Attribute value paging.
	"ozon_pagination_pages_total":        true,
	"ozon_pagination_exhausted_total":    true,
	"ozon_category_field_failures_total": true,

	// Client-side rate limit.
	"ozon_rate_limit_daily_usage":      true,
	"ozon_rate_limit_daily_hits_total": true,

	// Recording rules.
	"ozon:api_requests:rate5m":         true,
	"ozon:api_errors:rate5m":           true,
	"ozon:api_transport_errors:rate5m": true,
	"ozon:pagination_pages:rate5m":     true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
