// Package kenpom fetches team efficiency ratings from the KenPom HTTP API.
package kenpom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hoopsight/trapviz/internal/ratings"
	"github.com/hoopsight/trapviz/pkg/logger"
	"github.com/hoopsight/trapviz/pkg/metrics"
)

// Default client configuration constants.
const (
	// DefaultBaseURL is the production ratings endpoint.
	DefaultBaseURL = "https://kenpom.com/api.php"

	// defaultTimeout bounds the single upstream GET. The upstream source has
	// none; a hung API must not wedge a scheduled run.
	defaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response body is carried in the
	// returned error.
	maxErrorBody = 4 << 10
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL overrides the ratings endpoint, mainly for tests and the local
// mock API.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// Client issues the authenticated ratings request. One GET per run; no retry,
// no backoff, no caching. Retry is the scheduler's responsibility.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient constructs a Client for the given credential.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.Get()
	}

	return c
}

// FetchRatings returns the full rating set for the season ending in year.
func (c *Client) FetchRatings(ctx context.Context, year int) ([]ratings.TeamRating, error) {
	reqURL, err := c.ratingsURL(year)
	if err != nil {
		return nil, fmt.Errorf("build ratings url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build ratings request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.log.Info(ctx, "fetching ratings", logger.Int("year", year))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	metrics.RecordFetchDuration(time.Since(start).Seconds())
	metrics.RecordUpstreamStatus(resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var teams []ratings.TeamRating
	if err := json.NewDecoder(resp.Body).Decode(&teams); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	c.log.Info(ctx, "fetched ratings",
		logger.Int("teams", len(teams)),
		logger.Int("year", year),
	)
	metrics.UpdateTeamsFetched(len(teams))

	return teams, nil
}

// ratingsURL builds `{base}?endpoint=ratings&y={year}`.
func (c *Client) ratingsURL(year int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("endpoint", "ratings")
	q.Set("y", strconv.Itoa(year))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
