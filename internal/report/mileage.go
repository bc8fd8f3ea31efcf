// Package report aggregates store collections over date windows: weekly
// mileage and expenses, punctuality, daily trips, food intake and the
// weekly journal digest.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/store"
)

// MileageRate is the reimbursement in dollars per round-trip mile. It has
// always been applied as a direct dollar multiplier.
const MileageRate = 0.54

// MileageReport summarizes the trips of one Monday..Sunday week.
type MileageReport struct {
	Range        dates.Range
	Entries      []store.TripEntry // ascending by date
	TotalMiles   float64
	TotalParking float64
	TotalTickets float64
	Rate         float64
	MileageCost  float64
}

// DayMiles is the mileage logged on one day.
type DayMiles struct {
	Date  string
	Miles float64
}

// Mileage builds the report for the week containing date.
func Mileage(entries []store.TripEntry, date string, rate float64) MileageReport {
	r := MileageReport{Range: dates.WeekRange(date), Rate: rate}
	r.Entries = store.SortByDate(store.InRange(entries, r.Range), false)
	for _, e := range r.Entries {
		r.TotalMiles += e.RoundTripMiles
		if e.ParkingPrice != nil {
			r.TotalParking += *e.ParkingPrice
		}
		if e.TicketsPrice != nil {
			r.TotalTickets += *e.TicketsPrice
		}
	}
	r.MileageCost = r.TotalMiles * rate
	return r
}

// ByDay returns the miles of every day in the week, Monday first.
func (r MileageReport) ByDay() []DayMiles {
	days := r.Range.Days()
	out := make([]DayMiles, 0, len(days))
	for _, d := range days {
		dm := DayMiles{Date: d}
		for _, e := range r.Entries {
			if e.Date == d {
				dm.Miles += e.RoundTripMiles
			}
		}
		out = append(out, dm)
	}
	return out
}

// Text renders the report as a printable plain-text page.
func (r MileageReport) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "WEEKLY REPORT\n")
	fmt.Fprintf(&b, "Week of %s\n\n", dates.FormatWeekLabel(r.Range))
	fmt.Fprintf(&b, "Total miles: %.1f\n", r.TotalMiles)
	fmt.Fprintf(&b, "Mileage ($%s/mi): $%.2f\n", formatNumber(r.Rate), r.MileageCost)
	if r.TotalParking > 0 {
		fmt.Fprintf(&b, "Parking: $%.2f\n", r.TotalParking)
	}
	if r.TotalTickets > 0 {
		fmt.Fprintf(&b, "Tickets: $%.2f\n", r.TotalTickets)
	}
	fmt.Fprintf(&b, "\nEntries (%d)\n", len(r.Entries))
	if len(r.Entries) == 0 {
		b.WriteString("  No entries this week\n")
	}
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "  %s  %s: %s mi\n", dates.FormatDate(e.Date), e.LocationName, formatNumber(e.RoundTripMiles))
		if extras := priceLine(e); extras != "" {
			fmt.Fprintf(&b, "    %s\n", extras)
		}
		if e.Notes != "" {
			fmt.Fprintf(&b, "    %s\n", e.Notes)
		}
	}
	return b.String()
}

func priceLine(e store.TripEntry) string {
	var parts []string
	if e.ParkingPrice != nil {
		parts = append(parts, fmt.Sprintf("Parking: $%.2f", *e.ParkingPrice))
	}
	if e.TicketsPrice != nil {
		parts = append(parts, fmt.Sprintf("Tickets: $%.2f", *e.TicketsPrice))
	}
	return strings.Join(parts, " · ")
}

// DailyDigest lists the trips of a single day.
type DailyDigest struct {
	Date       string
	Trips      []store.TripEntry
	TotalMiles float64
}

// Daily returns the trips logged exactly on date.
func Daily(entries []store.TripEntry, date string) DailyDigest {
	d := DailyDigest{Date: date, Trips: store.OnDate(entries, date)}
	for _, e := range d.Trips {
		d.TotalMiles += e.RoundTripMiles
	}
	return d
}

// formatNumber prints v with the shortest exact decimal form ("4", "4.5").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
