// Package httpclient provides the outbound HTTP client shared by the catalog
// and GS1 integrations, with rate limiting and retry/backoff.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storekart/variant-service/internal/httpclient/ratelimit"
)

// Client is an HTTP client with rate limiting and retry logic
type Client struct {
	httpClient  *http.Client
	rateLimiter *ratelimit.RateLimiter
	config      ratelimit.Config
	userAgent   string
}

// NewClient creates a new HTTP client with rate limiting
func NewClient(config ratelimit.Config, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: ratelimit.NewRateLimiter(config),
		config:      config,
		userAgent:   "Storekart-VariantService/1.0",
	}
}

// NewClientDefault creates a new HTTP client with default rate limiting
func NewClientDefault() *Client {
	return NewClient(ratelimit.DefaultConfig(), 0)
}

// GetJSON performs a GET request and decodes the JSON response into out.
// Non-2xx responses and transport errors are retried per the retry config;
// a non-retryable status surfaces immediately.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, url, headers, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", url, err)
	}
	return nil
}

// Do performs an HTTP request with rate limiting and retry logic
func (c *Client) Do(ctx context.Context, method, url string, headers map[string]string, body io.Reader) (*http.Response, error) {
	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.rateLimiter.Throttle(); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				// Cancelled or superseded; retrying would only waste the budget
				return nil, ctx.Err()
			}
			if attempt < c.config.MaxRetries {
				sleepBackoff(ctx, attempt, c.config)
				continue
			}
			return nil, &ratelimit.FetchRetryError{
				URL:        url,
				Attempts:   attempt + 1,
				LastStatus: lastStatus,
				LastError:  lastErr,
			}
		}

		lastStatus = resp.StatusCode
		if ratelimit.IsRetryableStatus(resp.StatusCode) && attempt < c.config.MaxRetries {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			sleepBackoff(ctx, attempt, c.config)
			continue
		}

		return resp, nil
	}

	return nil, &ratelimit.FetchRetryError{
		URL:        url,
		Attempts:   c.config.MaxRetries + 1,
		LastStatus: lastStatus,
		LastError:  lastErr,
	}
}

// sleepBackoff waits out the backoff or returns early on context cancel.
func sleepBackoff(ctx context.Context, attempt int, cfg ratelimit.Config) {
	t := time.NewTimer(ratelimit.CalculateBackoff(attempt, cfg))
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
