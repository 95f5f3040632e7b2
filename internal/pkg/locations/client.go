// Package locations loads the upstream location directory and resolves
// free-text input against it for the search form typeahead.
package locations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/propferry/route-search-gateway/internal/app/dto"
)

// directoryRecord is the upstream /locations wire format.
type directoryRecord struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Country      string `json:"country"`
	LocationType string `json:"location_type"`
}

// Client fetches the location directory once per process and serves the
// cached set afterwards. Directory failures degrade the typeahead to
// "no suggestions", they never block search.
type Client struct {
	directoryURL string
	httpClient   *http.Client

	mu     sync.Mutex
	cached []dto.Location
	loaded bool
}

func NewClient(directoryURL string, timeout time.Duration) *Client {
	return &Client{
		directoryURL: directoryURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Load returns the directory, fetching it on first use. Concurrent
// callers coalesce on one fetch. Failures are logged and yield an empty
// set; the cache is only written on a completed successful fetch, so a
// cancelled or failed load leaves a later call free to retry.
func (c *Client) Load(ctx context.Context) []dto.Location {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.cached
	}

	locs, err := c.fetch(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to load location directory",
			slog.String("url", c.directoryURL),
			slog.String("error", err.Error()))

		return nil
	}

	c.cached = locs
	c.loaded = true

	return c.cached
}

func (c *Client) fetch(ctx context.Context) ([]dto.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.directoryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	var records []directoryRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode directory body: %w", err)
	}

	locs := make([]dto.Location, len(records))
	for i, rec := range records {
		locs[i] = dto.Location{
			ID:      rec.ID,
			Code:    rec.Code,
			Name:    rec.Name,
			City:    rec.City,
			Country: rec.Country,
			Kind:    rec.LocationType,
		}
	}

	return locs, nil
}
