package report

import (
	"math"

	"github.com/sadopc/nannylog/internal/store"
)

// PunctualityWindow is how many recent shifts the percentage looks at.
const PunctualityWindow = 14

// maxLateMinutes is the grace period after the scheduled start.
const maxLateMinutes = 10

// PunctualityStats is the on-time share of recent shifts. Percent is nil
// when there are no shifts.
type PunctualityStats struct {
	OnTime  int
	Total   int
	Percent *int
}

// IsOnTime reports whether actual started 0 to 10 minutes after scheduled.
// Unknown values are never on time.
func IsOnTime(actual, scheduled store.StartTime) bool {
	a, ok := actual.Minutes()
	if !ok {
		return false
	}
	s, ok := scheduled.Minutes()
	if !ok {
		return false
	}
	diff := a - s
	return diff >= 0 && diff <= maxLateMinutes
}

// Punctuality looks at the window most recent shift logs. The scheduled
// start of a shift is the gig booked on its date (preferring the same
// family); without a gig the schedule is 8:00, which makes every allowed
// start on time.
func Punctuality(logs []store.ShiftLog, gigs []store.Gig, window int) PunctualityStats {
	recent := store.SortByDate(logs, true)
	if window >= 0 && len(recent) > window {
		recent = recent[:window]
	}

	stats := PunctualityStats{Total: len(recent)}
	for _, l := range recent {
		if IsOnTime(l.StartTime, scheduledStart(l, gigs)) {
			stats.OnTime++
		}
	}
	if stats.Total > 0 {
		pct := int(math.Round(float64(stats.OnTime) / float64(stats.Total) * 100))
		stats.Percent = &pct
	}
	return stats
}

func scheduledStart(l store.ShiftLog, gigs []store.Gig) store.StartTime {
	var found *store.Gig
	for i := range gigs {
		g := &gigs[i]
		if g.Date != l.Date || !g.StartTime.Valid() {
			continue
		}
		if l.FamilyName != "" && g.FamilyName == l.FamilyName {
			return g.StartTime
		}
		if found == nil {
			found = g
		}
	}
	if found != nil {
		return found.StartTime
	}
	return store.Start800
}
