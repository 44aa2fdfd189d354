package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Client    ClientConfig
	Traversal TraversalConfig
	Scraper   ScraperConfig
	Store     StoreConfig
	API       APIConfig
	Log       LogConfig
}

// ClientConfig controls the rate-limited HTTP client.
type ClientConfig struct {
	// MinDelay and MaxDelay bound the randomized politeness interval
	// enforced between requests to the same host.
	MinDelay time.Duration // default: 1s
	MaxDelay time.Duration // default: 2s

	// MaxRetries is the number of attempts per request before a
	// failure is surfaced to the caller.
	MaxRetries int // default: 3

	// RetryWait is the backoff base; it doubles per attempt up to
	// RetryMaxWait.
	RetryWait    time.Duration // default: 2s
	RetryMaxWait time.Duration // default: 10s

	// Timeout is the absolute deadline for one request.
	Timeout time.Duration // default: 30s

	// UserAgent is sent on every request.
	UserAgent string
}

// TraversalConfig controls pagination behavior.
type TraversalConfig struct {
	// PageDelay is the extra wait applied before following a "next"
	// link, on top of the per-host politeness interval.
	PageDelay time.Duration // default: 2s

	// MaxPages bounds how many pages one search context may follow.
	// Zero means unbounded (the visited-URL cycle guard still
	// guarantees termination).
	MaxPages int // default: 0
}

// ScraperConfig controls per-jurisdiction orchestration.
type ScraperConfig struct {
	// Workers is the number of search contexts processed concurrently.
	// The politeness limiter still serializes same-host requests.
	Workers int // default: 1

	// Jurisdictions lists the jurisdiction codes to run.
	Jurisdictions []string // default: ["TX"]
}

// StoreConfig controls the sqlite store.
type StoreConfig struct {
	// Path is the sqlite database file.
	Path string // default: "attorneys.db"
}

// APIConfig controls the optional status/stats HTTP API.
type APIConfig struct {
	Enabled bool   // default: false
	Host    string // default: "0.0.0.0"
	Port    int    // default: 8080
	Mode    string // "debug", "release", "test"; default: "release"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Client: ClientConfig{
			MinDelay:     envDurationOr("BARSCRAPE_MIN_DELAY", 1*time.Second),
			MaxDelay:     envDurationOr("BARSCRAPE_MAX_DELAY", 2*time.Second),
			MaxRetries:   envIntOr("BARSCRAPE_MAX_RETRIES", 3),
			RetryWait:    envDurationOr("BARSCRAPE_RETRY_WAIT", 2*time.Second),
			RetryMaxWait: envDurationOr("BARSCRAPE_RETRY_MAX_WAIT", 10*time.Second),
			Timeout:      envDurationOr("BARSCRAPE_TIMEOUT", 30*time.Second),
			UserAgent:    envOr("BARSCRAPE_USER_AGENT", defaultUserAgent),
		},
		Traversal: TraversalConfig{
			PageDelay: envDurationOr("BARSCRAPE_PAGE_DELAY", 2*time.Second),
			MaxPages:  envIntOr("BARSCRAPE_MAX_PAGES", 0),
		},
		Scraper: ScraperConfig{
			Workers:       envIntOr("BARSCRAPE_WORKERS", 1),
			Jurisdictions: envSliceOr("BARSCRAPE_JURISDICTIONS", []string{"TX"}),
		},
		Store: StoreConfig{
			Path: envOr("BARSCRAPE_DB", "attorneys.db"),
		},
		API: APIConfig{
			Enabled: envBoolOr("BARSCRAPE_API_ENABLED", false),
			Host:    envOr("BARSCRAPE_API_HOST", "0.0.0.0"),
			Port:    envIntOr("BARSCRAPE_API_PORT", 8080),
			Mode:    envOr("BARSCRAPE_API_MODE", "release"),
		},
		Log: LogConfig{
			Level:  envOr("BARSCRAPE_LOG_LEVEL", "info"),
			Format: envOr("BARSCRAPE_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
