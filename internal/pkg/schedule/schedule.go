// Package schedule renders operating-day codes as display phrases.
//
// A day code is a string of digits where '1'..'7' mean Monday..Sunday,
// in any order, e.g. "135" for Mon/Wed/Fri.
package schedule

import "strings"

var dayAbbrev = map[byte]string{
	'1': "Mon",
	'2': "Tue",
	'3': "Wed",
	'4': "Thu",
	'5': "Fri",
	'6': "Sat",
	'7': "Sun",
}

// FormatOperatingDays maps a day-code string to a phrase like
// "Runs Daily" or "Runs Mon, Wed, Fri". An empty code yields an
// empty string. Digits outside '1'..'7' are dropped; duplicates
// count once, first occurrence wins for ordering. The day list
// preserves the order the codes appear in the input, it is never
// re-sorted.
func FormatOperatingDays(code string) string {
	if code == "" {
		return ""
	}

	seen := map[byte]bool{}
	days := make([]string, 0, len(code))

	for i := 0; i < len(code); i++ {
		c := code[i]

		abbrev, ok := dayAbbrev[c]
		if !ok || seen[c] {
			continue
		}

		seen[c] = true
		days = append(days, abbrev)
	}

	if len(days) == 0 {
		return ""
	}

	switch {
	case matchesSet(seen, "1234567"):
		return "Runs Daily"
	case matchesSet(seen, "12345"):
		return "Runs Mon-Fri"
	case matchesSet(seen, "67"):
		return "Runs Weekends"
	}

	return "Runs " + strings.Join(days, ", ")
}

// matchesSet reports whether seen contains exactly the digits of want.
func matchesSet(seen map[byte]bool, want string) bool {
	if len(seen) != len(want) {
		return false
	}

	for i := 0; i < len(want); i++ {
		if !seen[want[i]] {
			return false
		}
	}

	return true
}
