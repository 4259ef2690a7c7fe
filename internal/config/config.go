// Package config provides configuration types and helpers for chatscrub.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DateLayout is the wire format for the extraction date range.
const DateLayout = "2006-01-02"

// Config holds the application-wide configuration.
type Config struct {
	BaseURL  string        `mapstructure:"base_url"`
	StreamID string        `mapstructure:"stream_id"`
	Token    string        `mapstructure:"token"`
	DateFrom string        `mapstructure:"date_from"`
	DateTo   string        `mapstructure:"date_to"`
	Output   string        `mapstructure:"output"`
	Format   string        `mapstructure:"format"`
	PageSize int           `mapstructure:"page_size"`
	Backoff  time.Duration `mapstructure:"backoff"`
	Mask     bool          `mapstructure:"mask"`
	Verbose  bool          `mapstructure:"verbose"`
}

// Load unmarshals the current viper state into a Config and normalizes the
// base URL.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.BaseURL = NormalizeBaseURL(cfg.BaseURL)
	return &cfg, nil
}

// Validate checks everything the pipeline needs before the first network
// call. A failure here must prevent any side effects.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if c.StreamID == "" {
		return fmt.Errorf("stream ID is required")
	}
	if c.Token == "" {
		return fmt.Errorf("auth token is required")
	}
	from, err := ParseDate(c.DateFrom)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	to, err := ParseDate(c.DateTo)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("end date %s is before start date %s", c.DateTo, c.DateFrom)
	}
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.Backoff < 0 {
		return fmt.Errorf("backoff must not be negative, got %s", c.Backoff)
	}
	return nil
}

// ParseDate parses a strict YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// NormalizeBaseURL trims whitespace and trailing slashes and defaults bare
// hosts to https.
func NormalizeBaseURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	return strings.TrimRight(s, "/")
}
