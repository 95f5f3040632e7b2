package dto

import (
	"fmt"
	"net/http"

	"github.com/propferry/route-search-gateway/internal/pkg/exception"
	"github.com/propferry/route-search-gateway/internal/pkg/timetext"
)

// Location kinds as served by the upstream directory.
const (
	LocationKindAirport = "APT"
	LocationKindPort    = "PRT"
)

// Carrier kinds.
const (
	CarrierKindAir = "AIR"
	CarrierKindSea = "SEA"
)

type Location struct {
	ID      int64  `json:"id,omitempty"`
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

type Carrier struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Website string `json:"website,omitempty"`
}

// Leg is one flight or sailing segment. OperatingDays is only present
// for recurring scheduled legs (flights); date-specific sailings carry
// SailingDate and PriceText instead.
type Leg struct {
	ID              string   `json:"id"`
	Origin          Location `json:"origin"`
	Destination     Location `json:"destination"`
	Carrier         Carrier  `json:"carrier"`
	DepartureTime   string   `json:"departure_time,omitempty"`
	ArrivalTime     string   `json:"arrival_time,omitempty"`
	DurationMinutes *int     `json:"duration_minutes"`
	IsFerry         bool     `json:"is_ferry"`
	OperatingDays   string   `json:"operating_days,omitempty"`
	PriceText       string   `json:"price_text,omitempty"`
	SailingDate     string   `json:"sailing_date,omitempty"`

	// Display derivations.
	Schedule         string `json:"schedule,omitempty"`
	DepartureDisplay string `json:"departure_display,omitempty"`
	ArrivalDisplay   string `json:"arrival_display,omitempty"`
	DurationDisplay  string `json:"duration_display"`
	BookingURL       string `json:"booking_url,omitempty"`
	BookingLabel     string `json:"booking_label"`
}

// Itinerary is one travelable option: an ordered, non-empty leg
// sequence where each leg departs from the previous leg's destination.
// ConnectionDurationMinutes is set only for multi-leg itineraries and
// is nil when the computed gap is negative (bad upstream data).
type Itinerary struct {
	ID                        string `json:"id"`
	Legs                      []Leg  `json:"legs"`
	TotalDurationMinutes      int    `json:"total_duration_minutes"`
	ConnectionDurationMinutes *int   `json:"connection_duration_minutes"`
	TotalDurationDisplay      string `json:"total_duration_display"`
	ConnectionDisplay         string `json:"connection_display,omitempty"`
}

// SearchResult is the canonical adapted result for one submission.
type SearchResult struct {
	RequestedDate    string      `json:"requested_date"`
	ResolvedDate     string      `json:"resolved_date"`
	DateWasShifted   bool        `json:"date_was_shifted"`
	SearchWindowDays int         `json:"search_window_days"`
	Itineraries      []Itinerary `json:"itineraries"`
	EmptyMessage     string      `json:"empty_message,omitempty"`
	ShiftAlert       string      `json:"shift_alert,omitempty"`
}

type Metadata struct {
	TotalResults     int    `json:"total_results"`
	MalformedDropped int    `json:"malformed_dropped"`
	UpstreamShape    string `json:"upstream_shape"`
	SearchTimeMs     int    `json:"search_time_ms"`
	CacheHit         bool   `json:"cache_hit"`
}

type SearchRequest struct {
	Origin      string `json:"origin" validate:"required,uppercase,min=3,max=5"`
	Destination string `json:"destination" validate:"required,uppercase,min=3,max=5"`
	Date        string `json:"date" validate:"required"`
}

func (s *SearchRequest) Bind(r *http.Request) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("error validate request: %w", err)
	}

	return nil
}

func (s *SearchRequest) Validate() error {
	if err := ValidateSingleError(s); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	if s.Origin == s.Destination {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    "origin and destination must differ",
		}
	}

	if _, err := timetext.ParseCivilDate(s.Date); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("date must be YYYY-MM-DD, got %q", s.Date),
		}
	}

	return nil
}

// SearchResponse is what the presentation shell receives.
type SearchResponse struct {
	Criteria SearchRequest `json:"criteria"`
	Metadata Metadata      `json:"metadata"`
	Result   SearchResult  `json:"result"`
}

// Suggestion is one typeahead candidate with its transport-mode badge.
type Suggestion struct {
	Location
	Badge string `json:"badge"`
}

// PreferencesRequest updates the stored display preferences.
type PreferencesRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

func (p *PreferencesRequest) Bind(r *http.Request) error {
	if err := ValidateSingleError(p); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}
