// Package dates centralizes calendar-day normalization. Every day-granularity
// comparison in the application goes through here so that the timezone policy
// lives in exactly one place: days are resolved in the configured location
// (system local zone by default), never by string-prefix comparison of
// timestamps.
package dates

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitctl/internal/constants"
)

// stampLayouts are the timestamp shapes the backend is known to emit for
// record dates, tried in order after the bare day format.
var stampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Location resolves an IANA timezone name. Empty or "Local" means the system
// timezone.
func Location(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// Day truncates t to midnight of its calendar day, keeping t's location.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day. b is viewed
// in a's location first, so a record timestamped late in the evening UTC and
// a local query date still agree on the day they share.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Parse reads a backend date string, which may be a bare calendar day or a
// full timestamp. Bare days are anchored at midnight in loc; timestamps
// carrying their own offset are converted into loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(constants.DateFormat, s, loc); err == nil {
		return t, nil
	}
	for _, layout := range stampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Format renders t as a calendar day (YYYY-MM-DD).
func Format(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// Weekday parses a week-start day name ("sunday", "mon", ...).
func Weekday(name string) (time.Weekday, error) {
	names := map[string]time.Weekday{
		"sun": time.Sunday, "sunday": time.Sunday,
		"mon": time.Monday, "monday": time.Monday,
		"tue": time.Tuesday, "tuesday": time.Tuesday,
		"wed": time.Wednesday, "wednesday": time.Wednesday,
		"thu": time.Thursday, "thursday": time.Thursday,
		"fri": time.Friday, "friday": time.Friday,
		"sat": time.Saturday, "saturday": time.Saturday,
	}
	if wd, ok := names[normalize(name)]; ok {
		return wd, nil
	}
	return time.Sunday, fmt.Errorf("invalid weekday: %s", name)
}

func normalize(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' {
			continue
		}
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		b = append(b, c)
	}
	return string(b)
}
