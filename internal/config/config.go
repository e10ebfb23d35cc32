package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Airtable AirtableConfig `yaml:"airtable"`
	Resend   ResendConfig   `yaml:"resend"`
	Waitlist WaitlistConfig `yaml:"waitlist"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"` // Prometheus metrics configuration
}

// ServerConfig contains server-wide settings
type ServerConfig struct {
	Hostname string `yaml:"hostname"` // FQDN of the server
}

// APIConfig contains HTTP server settings
type APIConfig struct {
	ListenAddr     string        `yaml:"listen_addr"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"` // Max HTTP header size (default: 1MB)
	ReadTimeout    time.Duration `yaml:"read_timeout"`     // HTTP read timeout (default: 30s)
	WriteTimeout   time.Duration `yaml:"write_timeout"`    // HTTP write timeout (default: 30s)
	IdleTimeout    time.Duration `yaml:"idle_timeout"`     // HTTP idle timeout (default: 60s)
	VerboseErrors  bool          `yaml:"verbose_errors"`   // Include upstream error payloads in failure pages
}

// AirtableConfig contains record store settings.
// AccessToken and BaseID are secrets; the AIRTABLE_ACCESS_TOKEN and
// AIRTABLE_BASE_ID environment variables override the file values. Both may
// be empty at startup: requests then fail with a configuration error rather
// than the server refusing to boot.
type AirtableConfig struct {
	BaseURL        string        `yaml:"base_url"`
	AccessToken    string        `yaml:"access_token"`
	BaseID         string        `yaml:"base_id"`
	SignupsTable   string        `yaml:"signups_table"`
	InquiriesTable string        `yaml:"inquiries_table"`
	Timeout        time.Duration `yaml:"timeout"`
}

// ResendConfig contains email service settings. An empty APIKey (and no
// RESEND_API_KEY in the environment) disables email sending entirely.
type ResendConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	WaitlistFrom string        `yaml:"waitlist_from"`
	ContactFrom  string        `yaml:"contact_from"`
	AdminTo      []string      `yaml:"admin_to"`
	Timeout      time.Duration `yaml:"timeout"`
}

// WaitlistConfig contains signup numbering and premium eligibility settings.
// CountPageSize bounds the count query; it is intentionally equal to
// PremiumLimit so that numbering stays meaningful exactly while coupons are
// still being issued.
type WaitlistConfig struct {
	PremiumLimit  int    `yaml:"premium_limit"`
	CouponPrefix  string `yaml:"coupon_prefix"`
	CountPageSize int    `yaml:"count_page_size"`
	SiteURL       string `yaml:"site_url"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// MetricsConfig contains Prometheus metrics settings
type MetricsConfig struct {
	Enabled    bool     `yaml:"enabled"`
	ListenAddr string   `yaml:"listen_addr"` // Default: :9090
	Path       string   `yaml:"path"`        // Default: /metrics
	AllowedIPs []string `yaml:"allowed_ips"` // IP addresses/CIDRs allowed to access metrics
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// FromEnv builds a configuration from environment variables and defaults
// only, for commands that can run without a config file.
func FromEnv() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.setDefaults()
	return cfg
}

// applyEnv overlays secret values from the environment
func (c *Config) applyEnv() {
	if v := os.Getenv("AIRTABLE_ACCESS_TOKEN"); v != "" {
		c.Airtable.AccessToken = v
	}
	if v := os.Getenv("AIRTABLE_BASE_ID"); v != "" {
		c.Airtable.BaseID = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		c.Resend.APIKey = v
	}
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.Server.Hostname == "" {
		hostname, _ := os.Hostname()
		c.Server.Hostname = hostname
	}

	if c.API.ListenAddr == "" {
		c.API.ListenAddr = ":8080"
	}
	if c.API.MaxHeaderBytes == 0 {
		c.API.MaxHeaderBytes = 1 << 20 // 1 MB
	}
	if c.API.ReadTimeout == 0 {
		c.API.ReadTimeout = 30 * time.Second
	}
	if c.API.WriteTimeout == 0 {
		c.API.WriteTimeout = 30 * time.Second
	}
	if c.API.IdleTimeout == 0 {
		c.API.IdleTimeout = 60 * time.Second
	}

	if c.Airtable.BaseURL == "" {
		c.Airtable.BaseURL = "https://api.airtable.com/v0"
	}
	if c.Airtable.SignupsTable == "" {
		c.Airtable.SignupsTable = "Waitlist Signups"
	}
	if c.Airtable.InquiriesTable == "" {
		c.Airtable.InquiriesTable = "General Inquiries"
	}
	if c.Airtable.Timeout == 0 {
		c.Airtable.Timeout = 30 * time.Second
	}

	if c.Resend.BaseURL == "" {
		c.Resend.BaseURL = "https://api.resend.com"
	}
	if c.Resend.WaitlistFrom == "" {
		c.Resend.WaitlistFrom = "Snooze Lane <hello@snoozelaneapp.com>"
	}
	if c.Resend.ContactFrom == "" {
		c.Resend.ContactFrom = "Snooze Lane Contact <hello@snoozelaneapp.com>"
	}
	if len(c.Resend.AdminTo) == 0 {
		c.Resend.AdminTo = []string{"elombe@swftstudios.com"}
	}
	if c.Resend.Timeout == 0 {
		c.Resend.Timeout = 30 * time.Second
	}

	if c.Waitlist.PremiumLimit == 0 {
		c.Waitlist.PremiumLimit = 100
	}
	if c.Waitlist.CouponPrefix == "" {
		c.Waitlist.CouponPrefix = "SNOOZE100"
	}
	if c.Waitlist.CountPageSize == 0 {
		c.Waitlist.CountPageSize = 100
	}
	if c.Waitlist.SiteURL == "" {
		c.Waitlist.SiteURL = "https://snoozelaneapp.com"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	// Metrics defaults
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate validates the configuration. Record store and email secrets are
// deliberately not required here: their absence is reported per request.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging.format: %s (must be json or text)", c.Logging.Format)
	}

	if c.Waitlist.PremiumLimit < 0 {
		return fmt.Errorf("waitlist.premium_limit must not be negative")
	}
	if c.Waitlist.CountPageSize < 1 {
		return fmt.Errorf("waitlist.count_page_size must be at least 1")
	}
	if c.Waitlist.CouponPrefix == "" {
		return fmt.Errorf("waitlist.coupon_prefix is required")
	}

	if c.Resend.APIKey != "" && len(c.Resend.AdminTo) == 0 {
		return fmt.Errorf("resend.admin_to must not be empty when email sending is enabled")
	}

	return nil
}

// EmailEnabled reports whether an email service credential is configured
func (c *Config) EmailEnabled() bool {
	return c.Resend.APIKey != ""
}
