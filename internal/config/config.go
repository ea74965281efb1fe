// Package config defines the service configuration and how it is loaded.
package config

import (
	"strings"
)

// Config contains process configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string `koanf:"port"`

	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `koanf:"database_url"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// SQLLog turns on gorm statement logging.
	SQLLog bool `koanf:"sql_log"`

	// Circuits is the allow-list of circuit tags, in canonical casing.
	// Both judge creation and circuit edits validate against it.
	Circuits []string `koanf:"circuits"`

	// SuggestionLimit caps autocomplete results.
	SuggestionLimit int `koanf:"suggestion_limit"`

	// CORSOrigins are echoed back in Access-Control-Allow-Origin.
	CORSOrigins []string `koanf:"cors_origins"`

	// WriteRate and WriteBurst bound writes per client (requests per second).
	WriteRate  float64 `koanf:"write_rate"`
	WriteBurst int     `koanf:"write_burst"`

	// TrustedProxies lists the peers (IPs or CIDRs) whose X-Forwarded-For and
	// X-Real-IP headers identify the client. Headers from anyone else are
	// ignored.
	TrustedProxies []string `koanf:"trusted_proxies"`

	// SubmitterSalt keys the review submitter fingerprint.
	SubmitterSalt string `koanf:"submitter_salt"`

	// NotifyChannel is the Postgres LISTEN/NOTIFY channel for review writes.
	// Empty disables cross-instance notifications.
	NotifyChannel string `koanf:"notify_channel"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Port:            "5050",
		LogLevel:        "info",
		Circuits:        []string{"NatCirc", "Ohio"},
		SuggestionLimit: 5,
		CORSOrigins: []string{
			"http://localhost:5173",
			"http://localhost:5174",
		},
		WriteRate:     1,
		WriteBurst:    5,
		NotifyChannel: "rmj_reviews",
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.Port == "" {
		return ErrMissingPort
	}
	if len(c.Circuits) == 0 {
		return ErrNoCircuits
	}
	seen := make(map[string]struct{}, len(c.Circuits))
	for _, circuit := range c.Circuits {
		key := strings.ToLower(strings.TrimSpace(circuit))
		if key == "" {
			return ErrNoCircuits
		}
		if _, dup := seen[key]; dup {
			return ErrDuplicateCircuit
		}
		seen[key] = struct{}{}
	}
	if c.SuggestionLimit <= 0 {
		return ErrInvalidSuggestionLimit
	}
	return nil
}
