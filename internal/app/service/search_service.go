package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/propferry/route-search-gateway/internal/app/dto"
	"github.com/propferry/route-search-gateway/internal/pkg/itinerary"
	"github.com/propferry/route-search-gateway/internal/pkg/locations"
)

// RawFetcher fetches one raw upstream search response.
type RawFetcher interface {
	FetchRaw(ctx context.Context, origin, destination, date string) ([]byte, error)
}

// ResultCacher stores adapted results keyed by search criteria.
type ResultCacher interface {
	LockKey(req dto.SearchRequest) string
	CacheKey(req dto.SearchRequest) string
	AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
	GetResult(ctx context.Context, key string) (dto.SearchResult, error)
	GetStats(ctx context.Context, key string) (itinerary.Stats, error)
	SetResult(ctx context.Context, key string, result dto.SearchResult,
		stats itinerary.Stats, expiration time.Duration) error
}

type SearchService struct {
	Upstream              RawFetcher
	Cache                 ResultCacher
	ResultCacheExpiration time.Duration
	ResultLockTimeout     time.Duration
}

func NewSearchService(upstream RawFetcher, cache ResultCacher,
	cacheExpiration, lockTimeout time.Duration) *SearchService {
	return &SearchService{
		Upstream:              upstream,
		Cache:                 cache,
		ResultCacheExpiration: cacheExpiration,
		ResultLockTimeout:     lockTimeout,
	}
}

// SearchRoutes resolves one search submission: cache lookup, upstream
// fetch, normalization into the canonical itinerary model. An empty
// result is a valid response carrying its window message, not an error.
// SearchRoutes godoc
// @Summary      Search routes
// @Tags         Routes
// @Description  Search combined flight and ferry itineraries between two locations
// @Param        request  body      dto.SearchRequest  true  "Search criteria"
// @Success      200      {object}  dto.SearchResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      502      {object}  dto.ErrorResponse
// @Router       /api/v1/routes/search [post]
func (s *SearchService) SearchRoutes(
	ctx context.Context,
	req dto.SearchRequest,
) (dto.SearchResponse, error) {
	var stats itinerary.Stats

	startTime := time.Now()
	cacheHit := false

	cacheKey := s.Cache.CacheKey(req)
	lockKey := s.Cache.LockKey(req)

	result, err := s.Cache.GetResult(ctx, cacheKey)
	if err == nil {
		cacheHit = true

		stats, err = s.Cache.GetStats(ctx, cacheKey)
		if err != nil {
			slog.WarnContext(ctx, "failed to get adaptation stats from cache",
				slog.String("key", cacheKey),
				slog.String("error", err.Error()))
		}
	} else {
		slog.DebugContext(ctx, "search result cache miss",
			slog.String("key", cacheKey),
			slog.String("error", err.Error()))
	}

	if !cacheHit {
		// Concurrent identical submissions race to the same cache
		// entry; the SetNX lock lets only one of them fill it.
		raw, err := s.Upstream.FetchRaw(ctx, req.Origin, req.Destination, req.Date)
		if err != nil {
			return dto.SearchResponse{}, fmt.Errorf("fetch routes: %w", err)
		}

		result, stats, err = itinerary.Adapt(raw, req.Date)
		if err != nil {
			return dto.SearchResponse{}, fmt.Errorf("adapt response: %w", err)
		}

		acquired, err := s.Cache.AcquireLock(ctx, lockKey, s.ResultLockTimeout)
		if err != nil {
			return dto.SearchResponse{}, fmt.Errorf("failed to acquire lock: %w", err)
		}
		defer s.Cache.ReleaseLock(ctx, lockKey)

		if acquired {
			if err := s.Cache.SetResult(ctx, cacheKey, result, stats, s.ResultCacheExpiration); err != nil {
				return dto.SearchResponse{}, fmt.Errorf("failed to cache result: %w", err)
			}
		}
	}

	metadata := dto.Metadata{
		TotalResults:     len(result.Itineraries),
		MalformedDropped: stats.MalformedDropped,
		UpstreamShape:    stats.Shape,
		SearchTimeMs:     int(time.Since(startTime).Milliseconds()),
		CacheHit:         cacheHit,
	}

	return dto.SearchResponse{
		Criteria: req,
		Metadata: metadata,
		Result:   result,
	}, nil
}

// DirectoryLoader serves the cached location directory.
type DirectoryLoader interface {
	Load(ctx context.Context) []dto.Location
}

type LocationService struct {
	Directory DirectoryLoader
}

func NewLocationService(directory DirectoryLoader) *LocationService {
	return &LocationService{Directory: directory}
}

// Suggest returns typeahead candidates for a partial query. Directory
// load failures degrade to an empty candidate list.
func (s *LocationService) Suggest(ctx context.Context, query string) []dto.Suggestion {
	return locations.Filter(query, s.Directory.Load(ctx))
}
