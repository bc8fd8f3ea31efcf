package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/report"
)

type reportModel struct {
	deps   Deps
	width  int
	height int

	offset      int // weeks back from the current one (0 = current)
	mileage     report.MileageReport
	punctuality report.PunctualityStats
	loaded      bool

	chart barchart.Model
}

func newReportModel(d Deps) reportModel {
	return reportModel{
		deps:  d,
		chart: barchart.New(60, 12),
	}
}

func (r *reportModel) setSize(w, h int) {
	r.width = w
	r.height = h
	if r.loaded {
		r.buildChart()
	}
}

// date is a day inside the shown week.
func (r reportModel) date() string {
	return dates.AddDays(r.deps.today(), -7*r.offset)
}

func (r reportModel) week() dates.Range {
	return dates.WeekRange(r.date())
}

type reportDataMsg struct {
	date        string
	mileage     report.MileageReport
	punctuality report.PunctualityStats
}

func (r reportModel) refresh() tea.Cmd {
	d := r.deps
	date := r.date()
	return func() tea.Msg {
		return reportDataMsg{
			date:        date,
			mileage:     report.Mileage(d.Repos.Trips.LoadAll(), date, d.MileageRate),
			punctuality: report.Punctuality(d.Repos.ShiftLogs.LoadAll(), d.Repos.Gigs.LoadAll(), d.PunctualityWindow),
		}
	}
}

func (r reportModel) update(msg tea.Msg) (reportModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportDataMsg:
		if msg.date != r.date() {
			return r, nil
		}
		r.mileage = msg.mileage
		r.punctuality = msg.punctuality
		r.loaded = true
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 30 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, day := range r.mileage.ByDay() {
		label := dates.FormatDayName(day.Date)
		if len(label) > 3 {
			label = label[:3]
		}
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if day.Miles == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: "miles", Value: day.Miles, Style: style}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportModel) view() string {
	w := r.width - 4
	m := r.mileage

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Weekly Report"), "  ",
		mutedStyle.Render(dates.FormatWeekLabel(r.week())),
	)

	totals := []string{
		fmt.Sprintf("  Total miles: %s", accentStyle.Render(fmt.Sprintf("%.1f", m.TotalMiles))),
		fmt.Sprintf("  Mileage ($%s/mi): %s", formatMiles(r.deps.MileageRate), accentStyle.Render(formatMoney(m.MileageCost))),
	}
	if m.TotalParking > 0 {
		totals = append(totals, "  Parking: "+formatMoney(m.TotalParking))
	}
	if m.TotalTickets > 0 {
		totals = append(totals, "  Tickets: "+formatMoney(m.TotalTickets))
	}

	nav := mutedStyle.Render("  ←/→: navigate  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "",
			strings.Join(totals, "\n"), "",
			r.renderEntries(w), "",
			r.renderPunctuality(), "",
			nav,
		),
	)
}

func (r reportModel) renderEntries(w int) string {
	if len(r.mileage.Entries) == 0 {
		return mutedStyle.Render("  No entries this week")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %-22s %8s %9s %9s", "Date", "Location", "Miles", "Parking", "Tickets")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 66))))
	for _, e := range r.mileage.Entries {
		rows = append(rows, fmt.Sprintf("  %-14s %-22s %8s %9s %9s",
			dates.FormatDate(e.Date), e.LocationName, formatMiles(e.RoundTripMiles),
			formatPrice(e.ParkingPrice), formatPrice(e.TicketsPrice),
		))
	}
	return strings.Join(rows, "\n")
}

func (r reportModel) renderPunctuality() string {
	p := r.punctuality
	if p.Percent == nil {
		return mutedStyle.Render("  Punctuality: no shifts logged")
	}
	style := successStyle
	if *p.Percent < 80 {
		style = warningStyle
	}
	return "  Punctuality: " + style.Render(fmt.Sprintf("%d%% on time", *p.Percent)) +
		mutedStyle.Render(fmt.Sprintf(" (%d of last %d shifts)", p.OnTime, p.Total))
}
