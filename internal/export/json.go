package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sadopc/nannylog/internal/report"
)

type jsonExport struct {
	ExportedAt   string      `json:"exported_at"`
	WeekStart    string      `json:"week_start"`
	WeekEnd      string      `json:"week_end"`
	Count        int         `json:"count"`
	TotalMiles   float64     `json:"total_miles"`
	TotalParking float64     `json:"total_parking"`
	TotalTickets float64     `json:"total_tickets"`
	MileageRate  float64     `json:"mileage_rate"`
	MileageCost  float64     `json:"mileage_cost"`
	Entries      []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	LocationID     string   `json:"location_id"`
	Location       string   `json:"location"`
	RoundTripMiles float64  `json:"round_trip_miles"`
	Parking        *float64 `json:"parking,omitempty"`
	Tickets        *float64 `json:"tickets,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// WriteJSON writes the week's totals and trips as an indented document.
func WriteJSON(w io.Writer, r report.MileageReport, exportedAt time.Time) error {
	export := jsonExport{
		ExportedAt:   exportedAt.UTC().Format(time.RFC3339),
		WeekStart:    r.Range.Start,
		WeekEnd:      r.Range.End,
		Count:        len(r.Entries),
		TotalMiles:   r.TotalMiles,
		TotalParking: r.TotalParking,
		TotalTickets: r.TotalTickets,
		MileageRate:  r.Rate,
		MileageCost:  r.MileageCost,
		Entries:      []jsonEntry{},
	}

	for _, e := range r.Entries {
		export.Entries = append(export.Entries, jsonEntry{
			ID:             e.ID,
			Date:           e.Date,
			LocationID:     e.LocationID,
			Location:       e.LocationName,
			RoundTripMiles: e.RoundTripMiles,
			Parking:        e.ParkingPrice,
			Tickets:        e.TicketsPrice,
			Notes:          e.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// ToJSON writes the week's report to path.
func ToJSON(r report.MileageReport, path string) error {
	return toFile(path, func(w io.Writer) error { return WriteJSON(w, r, time.Now()) })
}
