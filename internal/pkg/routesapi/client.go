// Package routesapi is the HTTP client for the legacy upstream route
// search API. It returns raw response bytes; shape detection and
// normalization live in the itinerary adapter.
package routesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/propferry/route-search-gateway/internal/pkg/exception"
)

const limiterKey = "limit:routesapi"

type Config struct {
	SearchAPIURL string
	Timeout      time.Duration
	RateLimitRPS int
	Limiter      *redis_rate.Limiter
}

type Client struct {
	searchAPIURL string
	timeout      time.Duration
	rateLimitRPS int
	limiter      *redis_rate.Limiter
	httpClient   *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		searchAPIURL: cfg.SearchAPIURL,
		timeout:      cfg.Timeout,
		rateLimitRPS: cfg.RateLimitRPS,
		limiter:      cfg.Limiter,
		httpClient:   &http.Client{},
	}
}

// FetchRaw performs GET /search against the upstream for one submission.
// No retries: a failed fetch surfaces immediately and retry is a user
// action. The error is always an ApplicationError from the taxonomy in
// errors.go, or the backend's own message for structured failures.
func (c *Client) FetchRaw(ctx context.Context, origin, destination, date string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil && c.rateLimitRPS > 0 {
		res, err := c.limiter.Allow(ctx, limiterKey, redis_rate.PerSecond(c.rateLimitRPS))
		if err != nil {
			return nil, fmt.Errorf("failed to rate limit: %w", err)
		}

		if res.Allowed == 0 {
			return nil, ErrRateLimitExceeded
		}
	}

	query := url.Values{}
	query.Set("origin", origin)
	query.Set("destination", destination)
	query.Set("date", date)

	endpoint := fmt.Sprintf("%s/search?%s", c.searchAPIURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("search request cancelled: %w", ctx.Err())
		}

		slog.WarnContext(ctx, "upstream search request failed",
			slog.String("url", c.searchAPIURL),
			slog.String("error", err.Error()))

		return nil, ErrUpstreamUnreachable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.WarnContext(ctx, "failed to read upstream response",
			slog.String("error", err.Error()))

		return nil, ErrUpstreamUnreachable
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamError(resp.StatusCode, body)
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "json") {
		return nil, ErrUpstreamNotJSON
	}

	return body, nil
}

// upstreamError prefers the backend's structured error message and
// falls back to the generic failure.
func upstreamError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return exception.ApplicationError{
			StatusCode: status,
			Message:    payload.Error,
		}
	}

	return ErrUpstreamFailed
}
