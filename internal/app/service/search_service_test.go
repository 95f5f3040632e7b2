//go:build unit

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/propferry/route-search-gateway/internal/app/dto"
	"github.com/propferry/route-search-gateway/internal/pkg/itinerary"
	"github.com/propferry/route-search-gateway/internal/pkg/routesapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSearchService_SearchRoutes(t *testing.T) {
	type mockField struct {
		cache    *MockResultCacher
		upstream *MockRawFetcher
	}

	searchRequest := func(
		req dto.SearchRequest,
		setupMock func(m mockField),
		check func(t *testing.T, got dto.SearchResponse),
		wantErr error,
	) func(t *testing.T) {
		return func(t *testing.T) {
			m := mockField{
				cache:    NewMockResultCacher(t),
				upstream: NewMockRawFetcher(t),
			}
			setupMock(m)

			s := NewSearchService(m.upstream, m.cache, 10*time.Minute, 5*time.Second)

			got, err := s.SearchRoutes(context.Background(), req)

			if wantErr != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, wantErr)
				return
			}

			assert.NoError(t, err)
			check(t, got)
		}
	}

	req := dto.SearchRequest{
		Origin:      "MIA",
		Destination: "DOM",
		Date:        "2024-03-01",
	}

	cachedResult := dto.SearchResult{
		RequestedDate: "2024-03-01",
		ResolvedDate:  "2024-03-01",
		Itineraries: []dto.Itinerary{
			{ID: "cached-1", Legs: []dto.Leg{{ID: "leg-1"}}},
		},
	}

	legacyBody := []byte(`[
		{"id": 1, "origin": "MIA", "destination": "DOM", "type": "AIR",
		 "carrier": "American Airlines", "carrier_code": "AA",
		 "departure_time": "08:00", "arrival_time": "12:00", "duration": 240}
	]`)

	t.Run("cache_hit_skips_upstream", searchRequest(
		req,
		func(m mockField) {
			m.cache.On("CacheKey", req).Return("cache-key")
			m.cache.On("LockKey", req).Return("lock-key")
			m.cache.On("GetResult", mock.Anything, "cache-key").Return(cachedResult, nil)
			m.cache.On("GetStats", mock.Anything, "cache-key").
				Return(itinerary.Stats{Shape: itinerary.ShapeEnvelope, MalformedDropped: 2}, nil)
		},
		func(t *testing.T, got dto.SearchResponse) {
			assert.True(t, got.Metadata.CacheHit)
			assert.Equal(t, 1, got.Metadata.TotalResults)
			assert.Equal(t, "cached-1", got.Result.Itineraries[0].ID)
			assert.Equal(t, itinerary.ShapeEnvelope, got.Metadata.UpstreamShape)
			assert.Equal(t, 2, got.Metadata.MalformedDropped)
		},
		nil,
	))

	t.Run("cache_miss_fetches_adapts_and_fills", searchRequest(
		req,
		func(m mockField) {
			m.cache.On("CacheKey", req).Return("cache-key")
			m.cache.On("LockKey", req).Return("lock-key")
			m.cache.On("GetResult", mock.Anything, "cache-key").
				Return(dto.SearchResult{}, errors.New("cache miss"))
			m.upstream.On("FetchRaw", mock.Anything, "MIA", "DOM", "2024-03-01").
				Return(legacyBody, nil)
			m.cache.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(true, nil)
			m.cache.On("SetResult", mock.Anything, "cache-key", mock.Anything, mock.Anything, 10*time.Minute).Return(nil)
			m.cache.On("ReleaseLock", mock.Anything, "lock-key").Return(nil)
		},
		func(t *testing.T, got dto.SearchResponse) {
			assert.False(t, got.Metadata.CacheHit)
			assert.Equal(t, itinerary.ShapeLegacyArray, got.Metadata.UpstreamShape)
			assert.Equal(t, 1, got.Metadata.TotalResults)
			assert.Equal(t, "2024-03-01", got.Result.ResolvedDate)
			assert.False(t, got.Result.DateWasShifted)
		},
		nil,
	))

	t.Run("lock_not_acquired_skips_cache_fill", searchRequest(
		req,
		func(m mockField) {
			m.cache.On("CacheKey", req).Return("cache-key")
			m.cache.On("LockKey", req).Return("lock-key")
			m.cache.On("GetResult", mock.Anything, "cache-key").
				Return(dto.SearchResult{}, errors.New("cache miss"))
			m.upstream.On("FetchRaw", mock.Anything, "MIA", "DOM", "2024-03-01").
				Return(legacyBody, nil)
			m.cache.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(false, nil)
			m.cache.On("ReleaseLock", mock.Anything, "lock-key").Return(nil)
		},
		func(t *testing.T, got dto.SearchResponse) {
			assert.Equal(t, 1, got.Metadata.TotalResults)
		},
		nil,
	))

	t.Run("empty_result_is_not_an_error", searchRequest(
		req,
		func(m mockField) {
			m.cache.On("CacheKey", req).Return("cache-key")
			m.cache.On("LockKey", req).Return("lock-key")
			m.cache.On("GetResult", mock.Anything, "cache-key").
				Return(dto.SearchResult{}, errors.New("cache miss"))
			m.upstream.On("FetchRaw", mock.Anything, "MIA", "DOM", "2024-03-01").
				Return([]byte(`{"results": [], "search_window_days": 3}`), nil)
			m.cache.On("AcquireLock", mock.Anything, "lock-key", 5*time.Second).Return(true, nil)
			m.cache.On("SetResult", mock.Anything, "cache-key", mock.Anything, mock.Anything, 10*time.Minute).Return(nil)
			m.cache.On("ReleaseLock", mock.Anything, "lock-key").Return(nil)
		},
		func(t *testing.T, got dto.SearchResponse) {
			assert.Equal(t, 0, got.Metadata.TotalResults)
			assert.Equal(t, "No routes found within 3 days of 2024-03-01.", got.Result.EmptyMessage)
		},
		nil,
	))

	t.Run("upstream_failure_propagates", searchRequest(
		req,
		func(m mockField) {
			m.cache.On("CacheKey", req).Return("cache-key")
			m.cache.On("LockKey", req).Return("lock-key")
			m.cache.On("GetResult", mock.Anything, "cache-key").
				Return(dto.SearchResult{}, errors.New("cache miss"))
			m.upstream.On("FetchRaw", mock.Anything, "MIA", "DOM", "2024-03-01").
				Return(nil, routesapi.ErrUpstreamUnreachable)
		},
		nil,
		routesapi.ErrUpstreamUnreachable,
	))
}

// memoryCacher is an in-memory ResultCacher for exercising a full
// miss-then-hit sequence.
type memoryCacher struct {
	results map[string]dto.SearchResult
	stats   map[string]itinerary.Stats
}

func newMemoryCacher() *memoryCacher {
	return &memoryCacher{
		results: map[string]dto.SearchResult{},
		stats:   map[string]itinerary.Stats{},
	}
}

func (c *memoryCacher) LockKey(req dto.SearchRequest) string  { return "lock:" + req.Origin }
func (c *memoryCacher) CacheKey(req dto.SearchRequest) string { return "cache:" + req.Origin }

func (c *memoryCacher) AcquireLock(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (c *memoryCacher) ReleaseLock(context.Context, string) error { return nil }

func (c *memoryCacher) GetResult(_ context.Context, key string) (dto.SearchResult, error) {
	result, ok := c.results[key]
	if !ok {
		return dto.SearchResult{}, errors.New("cache miss")
	}

	return result, nil
}

func (c *memoryCacher) GetStats(_ context.Context, key string) (itinerary.Stats, error) {
	stats, ok := c.stats[key]
	if !ok {
		return itinerary.Stats{}, errors.New("stats miss")
	}

	return stats, nil
}

func (c *memoryCacher) SetResult(_ context.Context, key string, result dto.SearchResult,
	stats itinerary.Stats, _ time.Duration) error {
	c.results[key] = result
	c.stats[key] = stats

	return nil
}

func TestSearchService_CacheHitKeepsAdaptationStats(t *testing.T) {
	// One good route and one malformed (missing codes) entry, so the
	// adaptation stats are non-trivial.
	body := []byte(`[
		{"id": 1, "origin": "MIA", "destination": "DOM", "type": "AIR",
		 "departure_time": "08:00", "arrival_time": "12:00", "duration": 240},
		{"id": 2, "departure_time": "09:00"}
	]`)

	upstream := NewMockRawFetcher(t)
	upstream.On("FetchRaw", mock.Anything, "MIA", "DOM", "2024-03-01").
		Return(body, nil).Once()

	s := NewSearchService(upstream, newMemoryCacher(), 10*time.Minute, 5*time.Second)

	req := dto.SearchRequest{Origin: "MIA", Destination: "DOM", Date: "2024-03-01"}

	first, err := s.SearchRoutes(context.Background(), req)
	assert.NoError(t, err)
	assert.False(t, first.Metadata.CacheHit)
	assert.Equal(t, itinerary.ShapeLegacyArray, first.Metadata.UpstreamShape)
	assert.Equal(t, 1, first.Metadata.MalformedDropped)

	// The second identical search is served from the cache; the mock
	// upstream would fail the test if it were fetched again.
	second, err := s.SearchRoutes(context.Background(), req)
	assert.NoError(t, err)
	assert.True(t, second.Metadata.CacheHit)
	assert.Equal(t, first.Metadata.UpstreamShape, second.Metadata.UpstreamShape)
	assert.Equal(t, first.Metadata.MalformedDropped, second.Metadata.MalformedDropped)
	assert.Equal(t, first.Result.Itineraries, second.Result.Itineraries)
}

type staticDirectory struct {
	locs []dto.Location
}

func (d staticDirectory) Load(context.Context) []dto.Location { return d.locs }

func TestLocationService_Suggest(t *testing.T) {
	svc := NewLocationService(staticDirectory{locs: []dto.Location{
		{Code: "DOM", City: "Marigot", Kind: dto.LocationKindAirport},
		{Code: "DMROS", City: "Roseau", Kind: dto.LocationKindPort},
	}})

	got := svc.Suggest(context.Background(), "dom")
	if len(got) != 1 || got[0].Code != "DOM" {
		t.Fatalf("expected only DOM, got %v", got)
	}

	// Degraded directory yields no suggestions rather than an error.
	empty := NewLocationService(staticDirectory{})
	if got := empty.Suggest(context.Background(), "dom"); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %v", got)
	}
}
