// Package fetch issues rate-limited HTTP requests with bounded retries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/DanGreiner33/texas-bar-scraper/config"
	"github.com/DanGreiner33/texas-bar-scraper/models"
)

// Client fetches directory pages politely: every request waits for the
// destination host's politeness interval, and transport failures or error
// statuses are retried with increasing backoff. After retries are
// exhausted the failure is returned to the caller; the client never
// panics past its boundary.
type Client struct {
	http    *resty.Client
	limiter *hostLimiter
}

// New creates a Client from configuration.
func New(cfg config.ClientConfig) *Client {
	retries := cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}

	httpClient := resty.New().
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetTimeout(cfg.Timeout).
		SetRetryCount(retries - 1).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= http.StatusBadRequest
		})

	return &Client{
		http:    httpClient,
		limiter: newHostLimiter(cfg.MinDelay, cfg.MaxDelay),
	}
}

// Get fetches a page by URL.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	return c.do(ctx, http.MethodGet, rawURL, nil)
}

// PostForm submits a search form to the given URL.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) (string, error) {
	return c.do(ctx, http.MethodPost, rawURL, form)
}

func (c *Client) do(ctx context.Context, method, rawURL string, form url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeFetchFailed, "invalid url "+rawURL, err)
	}

	if waitErr := c.limiter.wait(ctx, u.Hostname()); waitErr != nil {
		return "", models.NewScrapeError(models.ErrCodeRunCancelled, "politeness wait aborted", waitErr)
	}

	req := c.http.R().SetContext(ctx)
	if form != nil {
		req.SetHeader("Content-Type", "application/x-www-form-urlencoded")
		req.SetBody(form.Encode())
	}

	resp, err := req.Execute(method, rawURL)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", models.NewScrapeError(models.ErrCodeTimeout, "request timed out: "+rawURL, err)
		}
		return "", models.NewScrapeError(models.ErrCodeFetchFailed, "request failed: "+rawURL, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return "", models.NewScrapeError(models.ErrCodeBadStatus,
			fmt.Sprintf("HTTP %d for %s", resp.StatusCode(), rawURL), nil)
	}

	return string(resp.Body()), nil
}

// Close releases the client's background resources.
func (c *Client) Close() {
	c.limiter.stop()
}
