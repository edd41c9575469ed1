// Rate-limited transport for all catalog calls.
//
// Every outbound request is serialized through a token bucket sized to the
// catalog's advertised safe rate. Token acquisition is the one legitimate
// suspension point exposed to callers.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libman/internal/shared"
	"golang.org/x/time/rate"
)

// jitterFraction bounds the random spread applied to each backoff delay.
// Kept below 0.5 so consecutive doubled delays never overlap: attempt n+1
// always sleeps longer than attempt n.
const jitterFraction = 0.25

// ClientOpts configures a rate-limited catalog client.
type ClientOpts struct {
	BaseURL           string
	HTTPClient        *http.Client
	Credentials       *CredentialStore
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int           // retry budget for 429s and transient failures
	BackoffBase       time.Duration // initial retry delay, doubled each attempt
	BackoffCap        time.Duration // ceiling on a single delay
	Logger            *log.Logger
}

// Client is the single chokepoint for catalog requests: token-bucket rate
// limiting, bounded retry with exponential backoff and jitter on 429s, a
// single credential refresh on 401, and typed errors for everything else.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	creds       *CredentialStore
	limiter     *rate.Limiter
	maxRetries  int
	backoffBase time.Duration
	backoffCap  time.Duration
	logger      *log.Logger

	// sleep is injectable so tests can observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a rate-limited client. Zero option fields fall back
// to the documented defaults (10 rps, burst 1, 3 retries, 500ms..8s).
func NewClient(opts ClientOpts) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 500 * time.Millisecond
	}
	if opts.BackoffCap <= 0 {
		opts.BackoffCap = 8 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:     opts.BaseURL,
		httpClient:  opts.HTTPClient,
		creds:       opts.Credentials,
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
		backoffCap:  opts.BackoffCap,
		logger:      opts.Logger,
		sleep:       sleepCtx,
	}
}

// Do performs a JSON request against the catalog and decodes a 2xx
// response into result (which may be nil). Rate-limit responses are
// retried internally with exponential backoff until the retry budget is
// exhausted; an authentication failure triggers one credential refresh
// and one retry. All other non-2xx responses surface immediately as a
// [shared.CatalogError].
func (c *Client) Do(ctx context.Context, method, endpoint string, body, result any) error {
	attempt := 0
	delay := c.backoffBase
	refreshed := false

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("token acquisition aborted: %w", err)
		}

		status, respBody, retryAfter, err := c.execute(ctx, method, endpoint, body)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Transient network failure: retry on the same budget as 429s.
			attempt++
			if attempt > c.maxRetries {
				return &shared.RateLimitError{Endpoint: endpoint, Attempts: attempt, LastDelay: delay}
			}
			c.logger.Warn("catalog request failed, retrying", "endpoint", endpoint, "attempt", attempt, "error", err)
			if err := c.backoff(ctx, delay, 0); err != nil {
				return err
			}
			delay = c.nextDelay(delay)
			continue
		}

		switch {
		case status >= 200 && status < 300:
			if result == nil {
				return nil
			}
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
			}
			return nil

		case status == http.StatusUnauthorized:
			if refreshed || c.creds == nil {
				return &shared.AuthError{Op: endpoint}
			}
			refreshed = true
			c.logger.Info("access token rejected, refreshing credential", "endpoint", endpoint)
			if err := c.creds.Refresh(ctx); err != nil {
				return &shared.AuthError{Op: endpoint, Err: err}
			}
			continue

		case status == http.StatusTooManyRequests:
			attempt++
			if attempt > c.maxRetries {
				return &shared.RateLimitError{Endpoint: endpoint, Attempts: attempt, LastDelay: delay}
			}
			c.logger.Warn("rate limited by catalog", "endpoint", endpoint, "attempt", attempt, "retry_after", retryAfter)
			if err := c.backoff(ctx, delay, retryAfter); err != nil {
				return err
			}
			delay = c.nextDelay(delay)
			continue

		default:
			return &shared.CatalogError{Endpoint: endpoint, Status: status, Body: respBody}
		}
	}
}

// execute sends one HTTP request and reads the full response body.
func (c *Client) execute(ctx context.Context, method, endpoint string, body any) (status int, respBody []byte, retryAfter time.Duration, err error) {
	var reader io.Reader
	if body != nil {
		payload, merr := json.Marshal(body)
		if merr != nil {
			return 0, nil, 0, fmt.Errorf("failed to encode request body: %w", merr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.creds != nil {
		req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("failed to read response: %w", err)
	}

	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, perr := strconv.Atoi(v); perr == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}

	return resp.StatusCode, respBody, retryAfter, nil
}

// backoff sleeps for the jittered delay, honoring a larger server-sent
// Retry-After when present. The sleep aborts on context cancellation.
func (c *Client) backoff(ctx context.Context, delay, retryAfter time.Duration) error {
	jitter := 1 + jitterFraction*(2*rand.Float64()-1)
	d := time.Duration(float64(delay) * jitter)
	if retryAfter > d {
		d = retryAfter
	}
	return c.sleep(ctx, d)
}

// nextDelay doubles the delay up to the configured cap.
func (c *Client) nextDelay(delay time.Duration) time.Duration {
	delay *= 2
	if delay > c.backoffCap {
		delay = c.backoffCap
	}
	return delay
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
