// Package timetext converts raw schedule values (minute counts, clock
// strings, civil dates) into display text.
package timetext

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDuration renders a minute count as "2h 5m". A nil or zero
// duration means the value is unknown and renders as "--".
func FormatDuration(minutes *int) string {
	if minutes == nil || *minutes == 0 {
		return "--"
	}

	h := *minutes / 60
	m := *minutes % 60

	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatClock renders a "HH:MM" or "HH:MM:SS" clock string in 12-hour
// form, e.g. "14:30" -> "2:30 PM". Malformed input renders as "".
func FormatClock(clock string) string {
	if clock == "" {
		return ""
	}

	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return ""
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return ""
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return ""
	}

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}

	display := hour % 12
	if display == 0 {
		display = 12
	}

	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}

// CivilDate is a calendar date with no time zone attached.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseCivilDate parses "YYYY-MM-DD" by splitting components directly.
// It never round-trips through an epoch timestamp, so the day component
// cannot shift for callers west of UTC.
func ParseCivilDate(value string) (CivilDate, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return CivilDate{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", value)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid year in %q: %w", value, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return CivilDate{}, fmt.Errorf("invalid month in %q", value)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return CivilDate{}, fmt.Errorf("invalid day in %q", value)
	}

	return CivilDate{Year: year, Month: time.Month(month), Day: day}, nil
}

// String renders the date back as "YYYY-MM-DD".
func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Weekday returns the day of week for the date.
func (d CivilDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// Display renders the date for alert text, e.g. "Mon, Mar 3 2024".
func (d CivilDate) Display() string {
	t := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)

	return t.Format("Mon, Jan 2 2006")
}
