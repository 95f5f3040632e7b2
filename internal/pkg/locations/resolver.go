package locations

import (
	"strings"

	"github.com/propferry/route-search-gateway/internal/app/dto"
)

// Badge labels shown next to typeahead candidates.
const (
	BadgeAir    = "AIR"
	BadgeFerry  = "FERRY"
	BadgeHybrid = "AIR / FERRY"
)

// hiddenCodes are satellite ferry terminal UN/LOCODEs suppressed from
// suggestions; users type the island's hub code instead (DOM covers
// DMROS and so on).
var hiddenCodes = map[string]bool{
	"DMROS": true, // Roseau, Dominica
	"GPPTP": true, // Pointe-a-Pitre, Guadeloupe
	"MQFDF": true, // Fort-de-France, Martinique
	"LCCAS": true, // Castries, St. Lucia
}

// hybridCodes are hub codes that search both air and sea departures.
var hybridCodes = map[string]bool{
	"DOM": true,
	"PTP": true,
	"FDF": true,
	"SLU": true,
}

// Filter returns the typeahead candidates for a query: case-insensitive
// substring match on code, city and name, with hidden satellite codes
// excluded. An empty query yields no candidates. Input order of the
// directory is preserved.
func Filter(query string, locs []dto.Location) []dto.Suggestion {
	if query == "" {
		return nil
	}

	needle := strings.ToLower(query)
	matches := make([]dto.Suggestion, 0, len(locs))

	for _, loc := range locs {
		if hiddenCodes[loc.Code] {
			continue
		}

		if !strings.Contains(strings.ToLower(loc.Code), needle) &&
			!strings.Contains(strings.ToLower(loc.City), needle) &&
			!strings.Contains(strings.ToLower(loc.Name), needle) {
			continue
		}

		matches = append(matches, dto.Suggestion{
			Location: loc,
			Badge:    BadgeFor(loc.Code, loc.Kind),
		})
	}

	return matches
}

// BadgeFor classifies a location's transport-mode badge. Hybrid hub
// codes win over the location kind.
func BadgeFor(code, kind string) string {
	if hybridCodes[code] {
		return BadgeHybrid
	}

	if kind == dto.LocationKindPort {
		return BadgeFerry
	}

	return BadgeAir
}
