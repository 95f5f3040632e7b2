package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/propferry/route-search-gateway/internal/app/config"
	"github.com/propferry/route-search-gateway/internal/app/dto"
	"github.com/propferry/route-search-gateway/internal/app/endpoints"
	httptransport "github.com/propferry/route-search-gateway/internal/pkg/transport/http"
)

// MakeHTTPRouter builds the HTTP router with all the service endpoints.
func MakeHTTPRouter(
	cfg *config.Config,
	endpts endpoints.Endpoints,
) *chi.Mux {
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.CORSMiddleware(cfg.HTTP.AllowedOrigins),
			httptransport.Recoverer(slog.Default()),
			render.SetContentType(render.ContentTypeJSON),
		)

		router.Post("/routes/search", httptransport.MakeHandlerFunc(
			endpts.SearchRoutes,
			httptransport.DecodeRequest[dto.SearchRequest],
			httptransport.ResponseWithBody,
		))

		router.Get("/locations/suggest", httptransport.MakeHandlerFunc(
			endpts.SuggestLocations,
			decodeSuggestRequest,
			httptransport.ResponseWithBody,
		))

		router.Get("/preferences", httptransport.MakeHandlerFunc(
			endpts.GetPreferences,
			decodeEmptyRequest,
			httptransport.ResponseWithBody,
		))

		router.Put("/preferences", httptransport.MakeHandlerFunc(
			endpts.UpdatePreferences,
			httptransport.DecodeRequest[dto.PreferencesRequest],
			httptransport.ResponseWithBody,
		))
	})

	return router
}

func decodeSuggestRequest(_ context.Context, req *http.Request) (interface{}, error) {
	return &endpoints.SuggestRequest{
		Query: req.URL.Query().Get("q"),
	}, nil
}

func decodeEmptyRequest(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}
