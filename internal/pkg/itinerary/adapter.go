// Package itinerary normalizes the upstream route search responses,
// across their historical schema generations, into the canonical
// itinerary model served to the presentation shell.
package itinerary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/propferry/route-search-gateway/internal/app/dto"
	"github.com/propferry/route-search-gateway/internal/pkg/exception"
	"github.com/propferry/route-search-gateway/internal/pkg/schedule"
	"github.com/propferry/route-search-gateway/internal/pkg/timetext"
)

// Response shapes recognized at the adapter boundary.
const (
	ShapeLegacyArray = "legacy_array"
	ShapeEnvelope    = "envelope"
)

// DefaultSearchWindowDays is assumed when the envelope does not report
// the lookahead window the backend actually used.
const DefaultSearchWindowDays = 7

// The only scheduled ferry operator in the covered region. Sailings
// whose carrier record lacks a website get this booking link.
const ferryBookingURL = "https://www.express-des-iles.com"

// Booking affordance labels.
const (
	BookingLabelBook         = "Book Now"
	BookingLabelCheckAirline = "Check Airline"
)

var errUnrecognizedShape = exception.BadGateway(
	"route search backend returned an unrecognized response shape")

// Stats describes what Adapt saw, for response metadata and logs. It
// is persisted next to cached results so cache hits report it too.
type Stats struct {
	Shape            string `json:"shape"`
	MalformedDropped int    `json:"malformed_dropped"`
}

// Adapt normalizes a raw upstream response body into a SearchResult.
// It accepts the legacy bare-array shape and the envelope shape, with
// flat or pre-grouped entries. Malformed entries are dropped and
// counted, never fatal. An envelope-level error message is surfaced
// verbatim as an ApplicationError.
func Adapt(body []byte, requestedDate string) (dto.SearchResult, Stats, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return dto.SearchResult{}, Stats{}, errUnrecognizedShape
	}

	var (
		env   rawEnvelope
		stats Stats
	)

	switch trimmed[0] {
	case '[':
		// Legacy generation: a bare route array, no date fallback
		// protocol. The resolved date is the requested date.
		stats.Shape = ShapeLegacyArray

		if err := json.Unmarshal(trimmed, &env.Results); err != nil {
			return dto.SearchResult{}, stats, errUnrecognizedShape
		}

		env.FoundDate = requestedDate
	case '{':
		stats.Shape = ShapeEnvelope

		if err := json.Unmarshal(trimmed, &env); err != nil {
			return dto.SearchResult{}, stats, errUnrecognizedShape
		}

		if env.Error != "" {
			return dto.SearchResult{}, stats, exception.BadGateway(env.Error)
		}
	default:
		return dto.SearchResult{}, Stats{}, errUnrecognizedShape
	}

	itineraries := make([]dto.Itinerary, 0, len(env.Results))

	for _, entry := range env.Results {
		itin, ok := adaptEntry(entry)
		if !ok {
			stats.MalformedDropped++
			continue
		}

		itineraries = append(itineraries, itin)
	}

	// Direct options first, then by total travel time. Stable so that
	// upstream ordering breaks ties.
	sort.SliceStable(itineraries, func(i, j int) bool {
		if len(itineraries[i].Legs) != len(itineraries[j].Legs) {
			return len(itineraries[i].Legs) < len(itineraries[j].Legs)
		}

		return itineraries[i].TotalDurationMinutes < itineraries[j].TotalDurationMinutes
	})

	result := dto.SearchResult{
		RequestedDate:    requestedDate,
		ResolvedDate:     requestedDate,
		DateWasShifted:   env.DateWasChanged,
		SearchWindowDays: env.SearchWindowDays,
		Itineraries:      itineraries,
	}

	if result.SearchWindowDays <= 0 {
		result.SearchWindowDays = DefaultSearchWindowDays
	}

	if env.FoundDate != "" {
		result.ResolvedDate = env.FoundDate
	}

	if result.DateWasShifted {
		result.ShiftAlert = fmt.Sprintf("No routes found for %s. Showing results for %s instead.",
			displayDate(result.RequestedDate), displayDate(result.ResolvedDate))
	}

	if len(itineraries) == 0 {
		result.EmptyMessage = fmt.Sprintf("No routes found within %d days of %s.",
			result.SearchWindowDays, displayDate(result.RequestedDate))
	}

	return result, stats, nil
}

// displayDate renders an ISO date for alert text, keeping the raw
// value when it does not parse.
func displayDate(iso string) string {
	d, err := timetext.ParseCivilDate(iso)
	if err != nil {
		return iso
	}

	return d.String()
}

// adaptEntry converts one response entry, flat route or pre-grouped
// itinerary, into the canonical model. The second return is false for
// malformed entries: zero usable legs, or a broken leg chain.
func adaptEntry(entry json.RawMessage) (dto.Itinerary, bool) {
	var probe groupProbe
	if err := json.Unmarshal(entry, &probe); err != nil {
		return dto.Itinerary{}, false
	}

	var (
		legs    []dto.Leg
		layover string
	)

	if len(probe.Legs) > 0 {
		for i, rawLegMsg := range probe.Legs {
			var raw rawLeg
			if err := json.Unmarshal(rawLegMsg, &raw); err != nil {
				return dto.Itinerary{}, false
			}

			leg, ok := adaptLeg(raw)
			if !ok {
				return dto.Itinerary{}, false
			}

			if i > 0 && layover == "" {
				layover = raw.Layover
			}

			legs = append(legs, leg)
		}
	} else {
		var raw rawLeg
		if err := json.Unmarshal(entry, &raw); err != nil {
			return dto.Itinerary{}, false
		}

		leg, ok := adaptLeg(raw)
		if !ok {
			return dto.Itinerary{}, false
		}

		legs = []dto.Leg{leg}
	}

	for i := 1; i < len(legs); i++ {
		if legs[i].Origin.Code != legs[i-1].Destination.Code {
			return dto.Itinerary{}, false
		}
	}

	itin := dto.Itinerary{
		ID:   string(probe.ID),
		Legs: legs,
	}

	if itin.ID == "" {
		if len(legs) == 1 && legs[0].ID != "" {
			itin.ID = legs[0].ID
		} else {
			itin.ID = uuid.NewString()
		}
	}

	connection, known := connectionMinutes(legs)
	if len(legs) > 1 && known {
		itin.ConnectionDurationMinutes = &connection
		itin.ConnectionDisplay = timetext.FormatDuration(&connection)
	} else if len(legs) > 1 && layover != "" {
		// Gap not computable from leg times; fall back to the
		// server-supplied layover description.
		itin.ConnectionDisplay = layover
	}

	itin.TotalDurationMinutes = totalMinutes(legs, probe.TotalDuration, connection, known)
	itin.TotalDurationDisplay = timetext.FormatDuration(&itin.TotalDurationMinutes)

	return itin, true
}

// connectionMinutes sums the inter-leg gaps. A missing time or a
// negative computed gap makes the whole connection unknown; a negative
// gap is upstream data corruption, not a crash.
func connectionMinutes(legs []dto.Leg) (int, bool) {
	total := 0

	for i := 1; i < len(legs); i++ {
		arrival, okArr := clockMinutes(legs[i-1].ArrivalTime)
		departure, okDep := clockMinutes(legs[i].DepartureTime)

		if !okArr || !okDep {
			return 0, false
		}

		gap := departure - arrival
		if gap < 0 {
			return 0, false
		}

		total += gap
	}

	return total, len(legs) > 1
}

// totalMinutes prefers the server-supplied total; otherwise it sums
// leg durations plus the inter-leg gaps when those are known.
func totalMinutes(legs []dto.Leg, serverTotal *int, connection int, connectionKnown bool) int {
	if serverTotal != nil && *serverTotal > 0 {
		return *serverTotal
	}

	total := 0
	for _, leg := range legs {
		if leg.DurationMinutes != nil {
			total += *leg.DurationMinutes
		}
	}

	if connectionKnown {
		total += connection
	}

	return total
}

// adaptLeg normalizes one raw route row. Nested object fields win;
// flat string fields fill the remaining holes. Legs without both
// endpoint codes, or looping back to their origin, are malformed.
func adaptLeg(raw rawLeg) (dto.Leg, bool) {
	origin := locationFromRaw(raw.Origin, raw.OriginName, raw.OriginCity)
	destination := locationFromRaw(raw.Destination, raw.DestinationName, raw.DestinationCity)

	if origin.Code == "" || destination.Code == "" || origin.Code == destination.Code {
		return dto.Leg{}, false
	}

	carrier := dto.Carrier{
		Code:    raw.Carrier.Code,
		Name:    raw.Carrier.Name,
		Kind:    raw.Carrier.Kind,
		Website: raw.Carrier.Website,
	}

	if carrier.Code == "" {
		carrier.Code = raw.CarrierCode
	}

	if carrier.Kind == "" {
		carrier.Kind = raw.Type
	}

	if carrier.Website == "" {
		carrier.Website = raw.CarrierWebsite
	}

	isFerry := carrier.Kind == dto.CarrierKindSea
	if raw.IsFerry != nil {
		isFerry = *raw.IsFerry
	}

	if isFerry && carrier.Kind == "" {
		carrier.Kind = dto.CarrierKindSea
	} else if carrier.Kind == "" {
		carrier.Kind = dto.CarrierKindAir
	}

	leg := dto.Leg{
		ID:            string(raw.ID),
		Origin:        origin,
		Destination:   destination,
		Carrier:       carrier,
		DepartureTime: normalizeClock(raw.DepartureTime),
		ArrivalTime:   normalizeClock(raw.ArrivalTime),
		IsFerry:       isFerry,
	}

	if leg.ID == "" {
		leg.ID = uuid.NewString()
	}

	leg.DurationMinutes = raw.DurationMinutes
	if leg.DurationMinutes == nil {
		leg.DurationMinutes = raw.Duration
	}

	// Recurring scheduled legs carry operating days; date-specific
	// sailings carry a sailing date and a price text instead.
	if isFerry {
		leg.SailingDate = raw.SailingDate
		leg.PriceText = raw.Price
	} else {
		leg.OperatingDays = raw.DaysOfOperation
		leg.Schedule = schedule.FormatOperatingDays(raw.DaysOfOperation)
	}

	leg.DepartureDisplay = timetext.FormatClock(leg.DepartureTime)
	leg.ArrivalDisplay = timetext.FormatClock(leg.ArrivalTime)
	leg.DurationDisplay = timetext.FormatDuration(leg.DurationMinutes)

	leg.BookingURL = carrier.Website
	if leg.BookingURL == "" && isFerry {
		leg.BookingURL = ferryBookingURL
	}

	if leg.BookingURL != "" {
		leg.BookingLabel = BookingLabelBook
	} else {
		leg.BookingLabel = BookingLabelCheckAirline
	}

	return leg, true
}

func locationFromRaw(loc flexLocation, flatName, flatCity string) dto.Location {
	out := dto.Location{
		ID:      loc.ID,
		Code:    loc.Code,
		Name:    loc.Name,
		City:    loc.City,
		Country: loc.Country,
		Kind:    loc.Kind,
	}

	if out.Name == "" {
		out.Name = flatName
	}

	if out.City == "" {
		out.City = flatCity
	}

	return out
}

// normalizeClock trims seconds off "HH:MM:SS" and drops values that do
// not parse as a clock time.
func normalizeClock(clock string) string {
	if _, ok := clockMinutes(clock); !ok {
		return ""
	}

	return clock[0:5]
}
