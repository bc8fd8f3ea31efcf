package dates

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate renders key as "Wed, Mar 6, 2024". Invalid keys pass through.
func FormatDate(key string) string {
	t, err := Parse(key)
	if err != nil {
		return key
	}
	return t.Format("Mon, Jan 2, 2006")
}

// FormatWeekLabel renders a week window as "Mar 4 – Mar 10, 2024".
func FormatWeekLabel(r Range) string {
	s, err := Parse(r.Start)
	if err != nil {
		return r.Start + " – " + r.End
	}
	e, err := Parse(r.End)
	if err != nil {
		return r.Start + " – " + r.End
	}
	return s.Format("Jan 2") + " – " + e.Format("Jan 2, 2006")
}

// FormatDayName renders the upper-case weekday name of key.
func FormatDayName(key string) string {
	t, err := Parse(key)
	if err != nil {
		return ""
	}
	return strings.ToUpper(t.Weekday().String())
}

// Greeting returns a time-of-day greeting for the wall clock of now.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// DaySentence returns a sentence naming the calendar day of now,
// e.g. "Today is Wednesday, March 6."
func DaySentence(now time.Time) string {
	return fmt.Sprintf("Today is %s, %s %d.", now.Weekday(), now.Month(), now.Day())
}
