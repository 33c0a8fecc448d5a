// Package github implements the upstream client for contribution data.
// The structured aggregate query is the primary path; per-repository
// enumeration is the fallback when the query cannot serve a user.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/schema"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second
	userAgent      = "aces"

	// Fallback pause when the reset header is missing or unparseable.
	rateLimitWait = 60 * time.Second

	perPage = 100
)

// StatusError is returned for any non-2xx upstream response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d (%s)", e.URL, e.StatusCode, contract.StatusMeaning(e.StatusCode))
}

// Client talks to the GitHub REST and GraphQL APIs. All requests share a
// single limiter so concurrent workers stay under the secondary limits.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
	limiter    *rate.Limiter

	mu      sync.Mutex
	orgIDs  map[string]string // org login -> node ID, resolved once per run
	resetAt time.Time         // quota reset deadline shared by all requests
}

var _ contract.ContributionsClient = &Client{} // Compile-time check

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter overrides the request limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a client authenticated with the given token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		token:      token,
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
		orgIDs:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchUserContributions returns a user's activity counts within an
// organization for the window. The aggregate query is tried first; on
// failure the client enumerates the organization's repositories instead.
func (c *Client) FetchUserContributions(ctx context.Context, username, org string, window schema.Window) (*schema.RawContribution, error) {
	raw, gqlErr := c.fetchViaGraphQL(ctx, username, org, window)
	if gqlErr == nil {
		raw.Source = schema.GraphQLSource
		return raw, nil
	}
	contract.LogWarn(fmt.Sprintf("aggregate query failed for %s in %s, using repository enumeration", username, org), gqlErr)
	raw, restErr := c.fetchViaREST(ctx, username, org, window)
	if restErr != nil {
		return nil, fmt.Errorf("query: %v; enumeration: %w", gqlErr, restErr)
	}
	raw.Source = schema.RESTSource
	return raw, nil
}

// doJSON performs one authenticated request and decodes the JSON response
// into out. A 403 with an exhausted rate-limit quota pauses until the
// advertised reset and retries exactly once; every other failure class is
// returned to the caller as-is.
func (c *Client) doJSON(ctx context.Context, method, url string, payload []byte, out any) error {
	for attempt := 0; ; attempt++ {
		// An exhausted quota affects every worker, so each request honors
		// the recorded reset deadline before taking a limiter slot.
		if err := c.pauseUntilReset(ctx); err != nil {
			return err
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		req.Header.Set("User-Agent", userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("github request: %w", err)
		}

		if attempt == 0 && resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
			reset := resp.Header.Get("X-RateLimit-Reset")
			resp.Body.Close()
			contract.LogWarn("rate limit exhausted, waiting for reset", nil)
			c.recordReset(reset)
			continue
		}

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			resp.Body.Close()
			return &StatusError{StatusCode: resp.StatusCode, URL: url}
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				resp.Body.Close()
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return resp.Body.Close()
	}
}

// recordReset stores the quota reset deadline from the response header, or
// rateLimitWait from now when the header is absent or malformed. The
// deadline only moves forward, so a stale response never shortens a pause
// another request already recorded.
func (c *Client) recordReset(reset string) {
	deadline := time.Now().Add(rateLimitWait)
	if sec, err := strconv.ParseInt(reset, 10, 64); err == nil {
		deadline = time.Unix(sec, 0)
	}

	c.mu.Lock()
	if deadline.After(c.resetAt) {
		c.resetAt = deadline
	}
	c.mu.Unlock()
}

// pauseUntilReset blocks while a recorded reset deadline is still in the
// future. Requests that never saw a 403 themselves pause here too.
func (c *Client) pauseUntilReset(ctx context.Context) error {
	c.mu.Lock()
	deadline := c.resetAt
	c.mu.Unlock()

	wait := time.Until(deadline)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
