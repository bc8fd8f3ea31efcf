package store

import (
	"fmt"
	"strings"
)

// StartTime is one of the allowed shift starts. The persisted values are
// "8", "805" and "810".
type StartTime string

const (
	Start800 StartTime = "8"
	Start805 StartTime = "805"
	Start810 StartTime = "810"
)

// StartTimes lists the allowed starts in order.
var StartTimes = []StartTime{Start800, Start805, Start810}

var startMinutes = map[StartTime]int{
	Start800: 8 * 60,
	Start805: 8*60 + 5,
	Start810: 8*60 + 10,
}

// ParseStartTime accepts a persisted value ("805") or a label ("8:05").
func ParseStartTime(s string) (StartTime, error) {
	v := StartTime(strings.ReplaceAll(strings.TrimSpace(s), ":", ""))
	if v == "800" {
		v = Start800
	}
	if !v.Valid() {
		return "", fmt.Errorf("%w: unknown start time %q", ErrValidation, s)
	}
	return v, nil
}

func (t StartTime) Valid() bool {
	_, ok := startMinutes[t]
	return ok
}

// Minutes returns minutes past midnight; ok is false for unknown values.
func (t StartTime) Minutes() (int, bool) {
	m, ok := startMinutes[t]
	return m, ok
}

func (t StartTime) Label() string {
	m, ok := t.Minutes()
	if !ok {
		return string(t)
	}
	return clock(m)
}

// EndTime is one of the allowed shift ends: "5", "505" or "510".
type EndTime string

const (
	End500 EndTime = "5"
	End505 EndTime = "505"
	End510 EndTime = "510"
)

var EndTimes = []EndTime{End500, End505, End510}

var endMinutes = map[EndTime]int{
	End500: 17 * 60,
	End505: 17*60 + 5,
	End510: 17*60 + 10,
}

func ParseEndTime(s string) (EndTime, error) {
	v := EndTime(strings.ReplaceAll(strings.TrimSpace(s), ":", ""))
	if v == "500" {
		v = End500
	}
	if !v.Valid() {
		return "", fmt.Errorf("%w: unknown end time %q", ErrValidation, s)
	}
	return v, nil
}

func (t EndTime) Valid() bool {
	_, ok := endMinutes[t]
	return ok
}

func (t EndTime) Minutes() (int, bool) {
	m, ok := endMinutes[t]
	return m, ok
}

func (t EndTime) Label() string {
	m, ok := t.Minutes()
	if !ok {
		return string(t)
	}
	return clock(m)
}

// clock renders minutes past midnight on a 12-hour dial without a suffix.
func clock(m int) string {
	h := (m / 60) % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d", h, m%60)
}

// Mood is the optional mood tag of a care note.
type Mood string

const (
	MoodGrumpy Mood = "grumpy"
	MoodHappy  Mood = "happy"
	MoodSad    Mood = "sad"
	MoodQuiet  Mood = "quiet"
	MoodSleepy Mood = "sleepy"
	MoodSick   Mood = "sick"
)

var Moods = []Mood{MoodGrumpy, MoodHappy, MoodSad, MoodQuiet, MoodSleepy, MoodSick}

// ParseMood accepts "" (no mood) or one of Moods, case-insensitively.
func ParseMood(s string) (Mood, error) {
	v := Mood(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return "", nil
	}
	for _, m := range Moods {
		if v == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown mood %q", ErrValidation, s)
}
