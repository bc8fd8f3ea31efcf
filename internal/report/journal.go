package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/food"
	"github.com/sadopc/nannylog/internal/store"
)

const (
	digestRule    = "═══════════════════════"
	noNotesSaved  = "(No notes saved)"
	digestTitle   = "Kid Journal — Week of "
	receiptPrefix = "journal-of-the-day-"
)

// JournalDigest renders the shareable week summary for the week containing
// date: one block per non-blank care note, oldest first, each listing that
// day's trips.
func JournalDigest(notes []store.CareNote, entries []store.TripEntry, date string) string {
	week := dates.WeekRange(date)
	lines := []string{digestTitle + dates.FormatWeekLabel(week), ""}

	for _, n := range store.SortByDate(store.InRange(notes, week), false) {
		if strings.TrimSpace(n.Content) == "" {
			continue
		}
		lines = append(lines, digestRule, dates.FormatDate(n.Date))
		if n.Mood != "" {
			lines = append(lines, "Mood: "+string(n.Mood))
		}
		lines = append(lines, "", "Trips / miles:")

		day := Daily(entries, n.Date)
		if len(day.Trips) == 0 {
			lines = append(lines, "  None")
		} else {
			for _, t := range day.Trips {
				lines = append(lines, fmt.Sprintf("  %s: %s mi", t.LocationName, formatNumber(t.RoundTripMiles)))
			}
			lines = append(lines, fmt.Sprintf("  Total: %.1f mi", day.TotalMiles))
		}
		lines = append(lines, "", "Journal:", n.Content, "")
	}
	return strings.Join(lines, "\n")
}

// DigestFilename names the downloaded digest for a week.
func DigestFilename(week dates.Range) string {
	return fmt.Sprintf("kid-journal-week-%s-%s.txt", week.Start, week.End)
}

// ReceiptFilename names the day receipt page for date.
func ReceiptFilename(date string) string {
	return receiptPrefix + date + ".html"
}

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{"miles": formatNumber}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Journal of the day - {{.DateLabel}}</title>
<style>
body { font-family: Georgia, serif; max-width: 36em; margin: 2em auto; color: #222; }
h1 { font-size: 1.4em; border-bottom: 1px solid #ccc; padding-bottom: .3em; }
.mood { color: #666; font-style: italic; }
.trips { font-family: monospace; margin-top: 1.5em; }
</style>
</head>
<body>
<h1>Journal of the day</h1>
<p>{{.DateLabel}}</p>
{{- if .Mood}}
<p class="mood">Mood: {{.Mood}}</p>
{{- end}}
<p>{{range $i, $l := .Lines}}{{if $i}}<br/>{{end}}{{$l}}{{end}}</p>
{{- if .Trips}}
<div class="trips">
{{- range .Trips}}
<div>{{.LocationName}}: {{miles .RoundTripMiles}} mi</div>
{{- end}}
<div>Total: {{printf "%.1f" .TotalMiles}} mi</div>
</div>
{{- end}}
</body>
</html>
`))

// DayReceiptHTML renders the printable page for one day. The saved note
// wins over draft; with neither, the page says no notes were saved. Note
// text is escaped and its line breaks kept.
func DayReceiptHTML(note *store.CareNote, draft string, entries []store.TripEntry, date string) (string, error) {
	content := draft
	var mood store.Mood
	if note != nil {
		mood = note.Mood
		if strings.TrimSpace(note.Content) != "" {
			content = note.Content
		}
	}
	if strings.TrimSpace(content) == "" {
		content = noNotesSaved
	}

	day := Daily(entries, date)
	data := struct {
		DateLabel  string
		Mood       store.Mood
		Lines      []string
		Trips      []store.TripEntry
		TotalMiles float64
	}{
		DateLabel:  dates.FormatDate(date),
		Mood:       mood,
		Lines:      strings.Split(content, "\n"),
		Trips:      day.Trips,
		TotalMiles: day.TotalMiles,
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

// IntakeWindowDays is the default lookback for food intake stats.
const IntakeWindowDays = 7

// Intake counts food categories across the meal notes dated in the
// trailing window ending today. Blank notes and future dates are skipped.
func Intake(m *food.Matcher, notes []store.MealNote, today string, days int) food.Stats {
	stats := food.Stats{}
	for _, n := range store.InRange(notes, dates.Trailing(today, days)) {
		if strings.TrimSpace(n.Notes) == "" {
			continue
		}
		stats.Add(m.CountByCategory(n.Notes))
	}
	return stats
}
