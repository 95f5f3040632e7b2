package endpoints

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"github.com/propferry/route-search-gateway/internal/app/dto"
	"github.com/propferry/route-search-gateway/internal/pkg/preferences"
)

type SearchService interface {
	SearchRoutes(ctx context.Context, req dto.SearchRequest) (dto.SearchResponse, error)
}

type LocationService interface {
	Suggest(ctx context.Context, query string) []dto.Suggestion
}

type PreferencesService interface {
	Preferences() preferences.Preferences
	SetTheme(ctx context.Context, theme string) error
}

type Endpoints struct {
	SearchRoutes      endpoint.Endpoint
	SuggestLocations  endpoint.Endpoint
	GetPreferences    endpoint.Endpoint
	UpdatePreferences endpoint.Endpoint
}

func MakeEndpoints(search SearchService, locations LocationService,
	prefs PreferencesService) Endpoints {
	return Endpoints{
		SearchRoutes:      makeSearchRoutesEndpoint(search),
		SuggestLocations:  makeSuggestLocationsEndpoint(locations),
		GetPreferences:    makeGetPreferencesEndpoint(prefs),
		UpdatePreferences: makeUpdatePreferencesEndpoint(prefs),
	}
}

func makeSearchRoutesEndpoint(service SearchService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.SearchRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		response, err := service.SearchRoutes(ctx, *request)
		if err != nil {
			return nil, fmt.Errorf("search service: %w", err)
		}

		return response, nil
	}
}

// SuggestRequest is the decoded typeahead query.
type SuggestRequest struct {
	Query string
}

func makeGetPreferencesEndpoint(service PreferencesService) endpoint.Endpoint {
	return func(_ context.Context, _ interface{}) (interface{}, error) {
		return service.Preferences(), nil
	}
}

func makeUpdatePreferencesEndpoint(service PreferencesService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.PreferencesRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		if err := service.SetTheme(ctx, request.Theme); err != nil {
			return nil, fmt.Errorf("preferences service: %w", err)
		}

		return service.Preferences(), nil
	}
}

func makeSuggestLocationsEndpoint(service LocationService) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*SuggestRequest)
		if !ok || request == nil {
			return nil, errors.New("invalid type")
		}

		suggestions := service.Suggest(ctx, request.Query)
		if suggestions == nil {
			suggestions = []dto.Suggestion{}
		}

		return suggestions, nil
	}
}
