// Package config loads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/HendryAvila/interview-prep-mcp/internal/leetcode"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// envFile is a package-level var to allow test injection.
var envFile = ".env"

// Config contains runtime configuration values. It is not modified after
// Load returns.
type Config struct {
	Upstream    leetcode.Config
	WarmOnStart bool
	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// Load builds a Config from environment variables with sane defaults.
// Variables already set in the environment win over the .env file; a
// missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	d := leetcode.DefaultConfig()
	cfg := &Config{
		Upstream: leetcode.Config{
			GraphQLURL: getenvDefault("LEETCODE_GRAPHQL_URL", d.GraphQLURL),
			RESTURL:    getenvDefault("LEETCODE_REST_URL", d.RESTURL),
			Referer:    getenvDefault("LEETCODE_REFERER", d.Referer),
			Timeout:    parseDurationDefault("REQUEST_TIMEOUT", d.Timeout),
			RateLimit:  parseIntDefault("RATE_LIMIT", d.RateLimit),
			RateWindow: parseDurationDefault("RATE_WINDOW", d.RateWindow),
			Retry: leetcode.RetryPolicy{
				MaxRetries: parseIntDefault("RETRY_MAX", d.Retry.MaxRetries),
				Base:       parseDurationDefault("RETRY_BASE", d.Retry.Base),
				Cap:        parseDurationDefault("RETRY_CAP", d.Retry.Cap),
			},
			PageSize: parseIntDefault("CATALOG_PAGE_SIZE", d.PageSize),
		},
		WarmOnStart: parseBoolDefault("WARM_ON_START", false),
		LogLevel:    strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getenvDefault("LOG_FORMAT", FormatText)),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}

	// Non-positive numbers fall back to defaults. Zero retries is allowed.
	u := &cfg.Upstream
	if u.Timeout <= 0 {
		u.Timeout = d.Timeout
	}
	if u.RateLimit <= 0 {
		u.RateLimit = d.RateLimit
	}
	if u.RateWindow <= 0 {
		u.RateWindow = d.RateWindow
	}
	if u.Retry.MaxRetries < 0 {
		u.Retry.MaxRetries = d.Retry.MaxRetries
	}
	if u.Retry.Base <= 0 {
		u.Retry.Base = d.Retry.Base
	}
	if u.Retry.Cap <= 0 {
		u.Retry.Cap = d.Retry.Cap
	}
	if u.PageSize <= 0 {
		u.PageSize = d.PageSize
	}

	for key, raw := range map[string]string{
		"LEETCODE_GRAPHQL_URL": u.GraphQLURL,
		"LEETCODE_REST_URL":    u.RESTURL,
	} {
		if err := checkURL(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}

	if cfg.LogFormat != FormatText && cfg.LogFormat != FormatJSON {
		return nil, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", FormatText, FormatJSON, cfg.LogFormat)
	}

	return cfg, nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntDefault(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func parseBoolDefault(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
