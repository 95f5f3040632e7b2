package itinerary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// The upstream routes API has gone through several schema generations.
// The oldest responds with a bare JSON array of flat routes; newer ones
// wrap results in an envelope and may pre-group legs into itineraries.
// Within a single generation a route's origin, destination and carrier
// may be flat strings or nested objects. The flex* types absorb those
// differences at the unmarshalling boundary so the adapter only ever
// sees one internal shape.

type rawEnvelope struct {
	Results          []json.RawMessage `json:"results"`
	SearchDate       string            `json:"search_date"`
	FoundDate        string            `json:"found_date"`
	DateWasChanged   bool              `json:"date_was_changed"`
	SearchWindowDays int               `json:"search_window_days"`
	Error            string            `json:"error"`
}

// groupProbe detects the pre-grouped shape: an entry carrying its own
// ordered leg array.
type groupProbe struct {
	ID            flexID            `json:"id"`
	Legs          []json.RawMessage `json:"legs"`
	TotalDuration *int              `json:"total_duration"`
}

type rawLeg struct {
	ID              flexID       `json:"id"`
	Carrier         flexCarrier  `json:"carrier"`
	CarrierCode     string       `json:"carrier_code"`
	CarrierWebsite  string       `json:"carrier_website"`
	Type            string       `json:"type"`
	Origin          flexLocation `json:"origin"`
	Destination     flexLocation `json:"destination"`
	OriginName      string       `json:"origin_name"`
	DestinationName string       `json:"destination_name"`
	OriginCity      string       `json:"origin_city"`
	DestinationCity string       `json:"destination_city"`
	DepartureTime   string       `json:"departure_time"`
	ArrivalTime     string       `json:"arrival_time"`
	Duration        *int         `json:"duration"`
	DurationMinutes *int         `json:"duration_minutes"`
	IsFerry         *bool        `json:"is_ferry"`
	DaysOfOperation string       `json:"days_of_operation"`
	Price           string       `json:"price"`
	SailingDate     string       `json:"sailing_date"`
	Layover         string       `json:"layover"`
}

// flexID accepts a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshal id: %w", err)
		}
		*f = flexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unmarshal id: %w", err)
	}
	*f = flexID(n.String())

	return nil
}

// flexLocation accepts a bare code string or a nested location object.
type flexLocation struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
	Kind    string `json:"location_type"`
}

func (f *flexLocation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var code string
		if err := json.Unmarshal(data, &code); err != nil {
			return fmt.Errorf("unmarshal location code: %w", err)
		}
		f.Code = code
		return nil
	}

	type alias flexLocation
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal location object: %w", err)
	}
	*f = flexLocation(obj)

	return nil
}

// flexCarrier accepts a bare carrier name string or a nested object.
type flexCarrier struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Kind    string `json:"carrier_type"`
	Website string `json:"website"`
}

func (f *flexCarrier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("unmarshal carrier name: %w", err)
		}
		f.Name = name
		return nil
	}

	type alias flexCarrier
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal carrier object: %w", err)
	}
	*f = flexCarrier(obj)

	return nil
}

// clockMinutes parses "HH:MM" or "HH:MM:SS" into minutes since
// midnight. The second return is false for missing or malformed input.
func clockMinutes(clock string) (int, bool) {
	if len(clock) < 5 || clock[2] != ':' {
		return 0, false
	}

	hour, err := strconv.Atoi(clock[0:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}

	minute, err := strconv.Atoi(clock[3:5])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	return hour*60 + minute, true
}
