package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 1*time.Second, cfg.Client.MinDelay)
	assert.Equal(t, 2*time.Second, cfg.Client.MaxDelay)
	assert.Equal(t, 3, cfg.Client.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Traversal.PageDelay)
	assert.Equal(t, 0, cfg.Traversal.MaxPages)
	assert.Equal(t, 1, cfg.Scraper.Workers)
	assert.Equal(t, []string{"TX"}, cfg.Scraper.Jurisdictions)
	assert.Equal(t, "attorneys.db", cfg.Store.Path)
	assert.False(t, cfg.API.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BARSCRAPE_MIN_DELAY", "250ms")
	t.Setenv("BARSCRAPE_MAX_RETRIES", "5")
	t.Setenv("BARSCRAPE_WORKERS", "4")
	t.Setenv("BARSCRAPE_JURISDICTIONS", "TX, FL")
	t.Setenv("BARSCRAPE_API_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, 250*time.Millisecond, cfg.Client.MinDelay)
	assert.Equal(t, 5, cfg.Client.MaxRetries)
	assert.Equal(t, 4, cfg.Scraper.Workers)
	assert.Equal(t, []string{"TX", "FL"}, cfg.Scraper.Jurisdictions)
	assert.True(t, cfg.API.Enabled)
}

func TestLoad_MalformedEnvFallsBack(t *testing.T) {
	t.Setenv("BARSCRAPE_MAX_RETRIES", "lots")
	t.Setenv("BARSCRAPE_MIN_DELAY", "soon")

	cfg := Load()

	assert.Equal(t, 3, cfg.Client.MaxRetries)
	assert.Equal(t, 1*time.Second, cfg.Client.MinDelay)
}
