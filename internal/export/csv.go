// Package export writes reports to files: weekly trip sheets as CSV or
// JSON, and prepared text payloads such as the journal digest.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/report"
)

var csvHeader = []string{"Date", "Location", "Round Trip Miles", "Parking", "Tickets", "Notes"}

// WriteCSV writes one row per trip of the week, oldest first. Absent prices
// are left blank.
func WriteCSV(out io.Writer, r report.MileageReport) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range r.Entries {
		row := []string{
			e.Date,
			e.LocationName,
			strconv.FormatFloat(e.RoundTripMiles, 'f', -1, 64),
			formatPrice(e.ParkingPrice),
			formatPrice(e.TicketsPrice),
			e.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ToCSV writes the week's trips to path.
func ToCSV(r report.MileageReport, path string) error {
	return toFile(path, func(w io.Writer) error { return WriteCSV(w, r) })
}

// Filename names the export of week with the given extension.
func Filename(week dates.Range, ext string) string {
	return fmt.Sprintf("nanny-report-%s-%s.%s", week.Start, week.End, ext)
}

// WriteText stores a rendered payload (digest, receipt) at path.
func WriteText(path, content string) error {
	return toFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}

func toFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}
