package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		BaseURL:  "https://bots.example.com",
		StreamID: "st-123",
		Token:    "jwt-token",
		DateFrom: "2025-01-01",
		DateTo:   "2025-01-31",
		Output:   "out.csv",
		Format:   "csv",
		PageSize: 10000,
		Backoff:  5 * time.Second,
		Mask:     true,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing base url", func(c *Config) { c.BaseURL = "" }, "base URL"},
		{"missing stream id", func(c *Config) { c.StreamID = "" }, "stream ID"},
		{"missing token", func(c *Config) { c.Token = "" }, "token"},
		{"bad from date", func(c *Config) { c.DateFrom = "01/01/2025" }, "start date"},
		{"bad to date", func(c *Config) { c.DateTo = "soon" }, "end date"},
		{"inverted range", func(c *Config) { c.DateFrom = "2025-02-01"; c.DateTo = "2025-01-01" }, "before start date"},
		{"missing output", func(c *Config) { c.Output = "" }, "output path"},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, "page size"},
		{"negative backoff", func(c *Config) { c.Backoff = -time.Second }, "backoff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.January, d.Month())

	_, err = ParseDate("")
	assert.Error(t, err)

	_, err = ParseDate("15-01-2025")
	assert.Error(t, err)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bots.example.com", "https://bots.example.com"},
		{"https://bots.example.com/", "https://bots.example.com"},
		{"http://localhost:8080///", "http://localhost:8080"},
		{"  bots.example.com  ", "https://bots.example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBaseURL(tt.in), "input %q", tt.in)
	}
}
