// Package dates holds the calendar helpers shared by the store, the report
// engine and the UI. Day keys are YYYY-MM-DD strings; they compare correctly
// with plain string ordering because the format is fixed-width.
package dates

import (
	"fmt"
	"time"
)

// Layout is the Go reference layout for a day key.
const Layout = "2006-01-02"

// Range is an inclusive span of day keys.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether key falls inside the range, bounds included.
func (r Range) Contains(key string) bool {
	return key >= r.Start && key <= r.End
}

// Parse reads a day key and anchors it at 12:00 UTC. Anchoring at mid-day
// keeps weekday and day offsets stable regardless of DST transitions.
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", key, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC), nil
}

// Valid reports whether key is a well-formed day key.
func Valid(key string) bool {
	_, err := Parse(key)
	return err == nil
}

// Key returns the local calendar day of t as a day key.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// TodayISO returns the current local calendar day.
func TodayISO() string {
	return Key(time.Now())
}

// AddDays shifts key by n calendar days. Invalid keys are returned unchanged.
func AddDays(key string, n int) string {
	t, err := Parse(key)
	if err != nil {
		return key
	}
	return t.AddDate(0, 0, n).Format(Layout)
}

// WeekRange returns the Monday..Sunday window containing key.
func WeekRange(key string) Range {
	t, err := Parse(key)
	if err != nil {
		return Range{Start: key, End: key}
	}
	weekday := int(t.Weekday())
	offset := 1 - weekday
	if weekday == 0 {
		offset = -6
	}
	monday := t.AddDate(0, 0, offset)
	return Range{
		Start: monday.Format(Layout),
		End:   monday.AddDate(0, 0, 6).Format(Layout),
	}
}

// Trailing returns the window that ends on today and reaches back n days.
// The start day is included, so the window spans n+1 calendar days.
func Trailing(today string, n int) Range {
	return Range{Start: AddDays(today, -n), End: today}
}

// Days lists every day key in r in ascending order.
func (r Range) Days() []string {
	var out []string
	for d := r.Start; d <= r.End; d = AddDays(d, 1) {
		if !Valid(d) {
			break
		}
		out = append(out, d)
	}
	return out
}
