// Package backend is the HTTP client for the external catalog backend that
// owns the marketplace data. The backend is a collaborator, not part of
// this service: it is consumed as "fetch items for these criteria, get an
// envelope back".
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Config holds the catalog backend connection settings.
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns conservative client defaults.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		RequestsPerSecond: 20,
		Burst:             40,
	}
}

// Client is an HTTP client for the catalog backend with outbound
// throttling and retry on transient failures.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	config     Config
	logger     zerolog.Logger
}

// NewClient creates a catalog backend client.
func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 20
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RequestsPerSecond) * 2
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		config:     cfg,
		logger:     logger.With().Str("component", "backend_client").Logger(),
	}
}

// FetchRetryError represents an error when all retry attempts are exhausted.
type FetchRetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *FetchRetryError) Error() string {
	msg := "failed to fetch " + e.URL + " after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *FetchRetryError) Unwrap() error { return e.LastError }

// getJSON performs a throttled GET with retry and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	fullURL := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var lastStatus int
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("throttle wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "topprix-listing-service/1.0")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if attempt < c.config.MaxRetries {
				c.sleep(ctx, c.backoff(attempt, nil))
				continue
			}
			break
		}

		lastStatus = resp.StatusCode

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("read response body: %w", err)
			}
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode %s: %w", fullURL, err)
			}
			return nil
		}

		retryAfter := resp.Header.Get("Retry-After")
		resp.Body.Close()

		if !isRetryableStatus(resp.StatusCode) || attempt == c.config.MaxRetries {
			break
		}

		c.logger.Warn().
			Str("url", fullURL).
			Int("status", resp.StatusCode).
			Int("attempt", attempt+1).
			Msg("Retrying backend request")

		var retryAfterPtr *string
		if resp.StatusCode == http.StatusTooManyRequests && retryAfter != "" {
			retryAfterPtr = &retryAfter
		}
		c.sleep(ctx, c.backoff(attempt, retryAfterPtr))
	}

	return &FetchRetryError{
		URL:        fullURL,
		Attempts:   c.config.MaxRetries + 1,
		LastStatus: lastStatus,
		LastError:  lastErr,
	}
}

// isRetryableStatus reports whether an HTTP status is worth retrying.
// Retryable: 429, 500-599.
func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// backoff computes the exponential delay for an attempt, with 0-25% jitter.
// A server-provided Retry-After wins over the computed delay.
func (c *Client) backoff(attempt int, retryAfter *string) time.Duration {
	if retryAfter != nil {
		if seconds, err := strconv.Atoi(*retryAfter); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	initial := float64(c.config.InitialBackoff)
	if initial <= 0 {
		initial = float64(100 * time.Millisecond)
	}
	maxBackoff := float64(c.config.MaxBackoff)
	if maxBackoff <= 0 {
		maxBackoff = float64(30 * time.Second)
	}

	delay := math.Min(initial*math.Pow(2, float64(attempt)), maxBackoff)
	jitter := rand.Float64() * 0.25 * delay
	return time.Duration(delay + jitter)
}

// sleep blocks for d or until the context is cancelled.
func (c *Client) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
