package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/report"
	"github.com/sadopc/nannylog/internal/store"
)

type todayModel struct {
	deps   Deps
	width  int
	height int

	now         time.Time
	weather     string
	gigs        []store.Gig
	pending     int
	daily       report.DailyDigest
	punctuality report.PunctualityStats
}

func newTodayModel(d Deps) todayModel {
	return todayModel{deps: d, now: d.Now()}
}

func (t *todayModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type todayDataMsg struct {
	gigs        []store.Gig
	pending     int
	daily       report.DailyDigest
	punctuality report.PunctualityStats
}

func (t todayModel) refresh() tea.Cmd {
	d := t.deps
	return func() tea.Msg {
		today := d.today()
		gigs := d.Repos.Gigs.LoadAll()

		todays := store.OnDate(gigs, today)
		sort.SliceStable(todays, func(i, j int) bool {
			a, _ := todays[i].StartTime.Minutes()
			b, _ := todays[j].StartTime.Minutes()
			return a < b
		})

		return todayDataMsg{
			gigs:        todays,
			pending:     len(d.Repos.Requests.LoadAll()),
			daily:       report.Daily(d.Repos.Trips.LoadAll(), today),
			punctuality: report.Punctuality(d.Repos.ShiftLogs.LoadAll(), gigs, d.PunctualityWindow),
		}
	}
}

func (t todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todayDataMsg:
		t.gigs = msg.gigs
		t.pending = msg.pending
		t.daily = msg.daily
		t.punctuality = msg.punctuality
		return t, nil

	case tickMsg:
		prev := t.now
		t.now = time.Time(msg)
		if prev.YearDay() != t.now.YearDay() {
			return t, t.refresh()
		}
	}
	return t, nil
}

func (t todayModel) view() string {
	if t.width < 20 {
		return "Terminal too small"
	}
	w := t.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		t.renderGreeting(w),
		t.renderSchedule(w),
		t.renderTrips(w),
	)
}

func (t todayModel) renderGreeting(w int) string {
	rows := []string{
		greetingStyle.Render(dates.Greeting(t.now) + "!"),
		subtitleStyle.Render(dates.DaySentence(t.now)),
	}
	if t.weather != "" {
		rows = append(rows, accentStyle.Render(t.weather))
	}

	punct := mutedStyle.Render("Punctuality: no shifts logged yet")
	if p := t.punctuality.Percent; p != nil {
		style := successStyle
		if *p < 80 {
			style = warningStyle
		}
		punct = style.Render(fmt.Sprintf("Punctuality: %d%% on time", *p)) +
			mutedStyle.Render(fmt.Sprintf("  (last %d shifts)", t.punctuality.Total))
	}
	rows = append(rows, "", punct)

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t todayModel) renderSchedule(w int) string {
	title := titleStyle.Render("Schedule")
	var rows []string
	rows = append(rows, title)

	if len(t.gigs) == 0 {
		rows = append(rows, mutedStyle.Render("No gigs today"))
	}
	for _, g := range t.gigs {
		line := fmt.Sprintf("  %s  %s – %s", highlightStyle.Render(g.FamilyName), g.StartTime.Label(), g.EndTime.Label())
		if g.Notes != "" {
			line += mutedStyle.Render("  " + g.Notes)
		}
		rows = append(rows, line)
	}
	if t.pending > 0 {
		rows = append(rows, "", warningStyle.Render(fmt.Sprintf("%d pending request(s), see Shifts", t.pending)))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t todayModel) renderTrips(w int) string {
	title := titleStyle.Render("Trips") + "  " + highlightStyle.Render(formatMiles(t.daily.TotalMiles)+" mi")
	if len(t.daily.Trips) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No trips today. Press 2 to log one."),
		))
	}

	var rows []string
	rows = append(rows, title)
	for _, e := range t.daily.Trips {
		rows = append(rows, fmt.Sprintf("  • %-24s %s mi", e.LocationName, formatMiles(e.RoundTripMiles)))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
