package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/store"
)

type shiftFields struct {
	date   string
	family string
	start  string
	end    string
	notes  string
}

type shiftsModel struct {
	deps   Deps
	width  int
	height int

	offset   int // weeks from the current one
	gigs     []store.Gig
	logs     []store.ShiftLog
	requests []store.Request
	cursor   int // into requests

	formActive bool
	form       *huh.Form
	formType   string // "gig", "request", "shift"
	fields     *shiftFields
}

func newShiftsModel(d Deps) shiftsModel {
	return shiftsModel{deps: d, fields: &shiftFields{}}
}

func (s *shiftsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s shiftsModel) week() dates.Range {
	return dates.WeekRange(dates.AddDays(s.deps.today(), 7*s.offset))
}

type shiftsDataMsg struct {
	gigs     []store.Gig
	logs     []store.ShiftLog
	requests []store.Request
}

func (s shiftsModel) refresh() tea.Cmd {
	d := s.deps
	week := s.week()
	return func() tea.Msg {
		gigs := store.InRange(d.Repos.Gigs.LoadAll(), week)
		sort.SliceStable(gigs, func(i, j int) bool {
			if gigs[i].Date != gigs[j].Date {
				return gigs[i].Date < gigs[j].Date
			}
			a, _ := gigs[i].StartTime.Minutes()
			b, _ := gigs[j].StartTime.Minutes()
			return a < b
		})
		return shiftsDataMsg{
			gigs:     gigs,
			logs:     store.SortByDate(store.InRange(d.Repos.ShiftLogs.LoadAll(), week), false),
			requests: store.SortByDate(d.Repos.Requests.LoadAll(), false),
		}
	}
}

func (s shiftsModel) update(msg tea.Msg) (shiftsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case shiftsDataMsg:
		s.gigs = msg.gigs
		s.logs = msg.logs
		s.requests = msg.requests
		s.cursor = clampCursor(s.cursor, len(s.requests))
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			s.offset--
			return s, s.refresh()
		case key.Matches(msg, keys.Right):
			s.offset++
			return s, s.refresh()
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.requests)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.Gig):
			return s.showForm("gig")
		case key.Matches(msg, keys.Request):
			return s.showForm("request")
		case key.Matches(msg, keys.Shift):
			return s.showForm("shift")
		case key.Matches(msg, keys.Approve):
			if req, ok := s.selectedRequest(); ok {
				gig, err := s.deps.Repos.ApproveRequest(req.ID)
				if err != nil {
					return s, errorCmd(err)
				}
				return s, savedCmd(fmt.Sprintf("Approved %s on %s", gig.FamilyName, dates.FormatDate(gig.Date)))
			}
		case key.Matches(msg, keys.Decline):
			if req, ok := s.selectedRequest(); ok {
				if err := s.deps.Repos.DeclineRequest(req.ID); err != nil {
					return s, errorCmd(err)
				}
				return s, savedCmd(fmt.Sprintf("Declined %s on %s", req.FamilyName, dates.FormatDate(req.Date)))
			}
		}
	}
	return s, nil
}

func (s shiftsModel) selectedRequest() (store.Request, bool) {
	if s.cursor < 0 || s.cursor >= len(s.requests) {
		return store.Request{}, false
	}
	return s.requests[s.cursor], true
}

func startOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(store.StartTimes))
	for _, t := range store.StartTimes {
		opts = append(opts, huh.NewOption(t.Label(), string(t)))
	}
	return opts
}

func endOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(store.EndTimes))
	for _, t := range store.EndTimes {
		opts = append(opts, huh.NewOption(t.Label(), string(t)))
	}
	return opts
}

func validateFamily(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("family name is required")
	}
	return nil
}

func (s shiftsModel) showForm(kind string) (shiftsModel, tea.Cmd) {
	*s.fields = shiftFields{
		date:  s.deps.today(),
		start: string(store.Start800),
		end:   string(store.End500),
	}
	s.formType = kind

	family := huh.NewInput().Title("Family").Value(&s.fields.family)
	if kind == "shift" {
		family = family.Title("Family (optional)")
	} else {
		family = family.Validate(validateFamily)
	}

	fields := []huh.Field{
		huh.NewInput().Title("Date").Value(&s.fields.date).Validate(validateDate),
		family,
		huh.NewSelect[string]().Title("Start").Options(startOptions()...).Value(&s.fields.start),
		huh.NewSelect[string]().Title("End").Options(endOptions()...).Value(&s.fields.end),
	}
	if kind != "shift" {
		fields = append(fields, huh.NewInput().Title("Notes").Value(&s.fields.notes))
	}

	s.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	s.formActive = true
	return s, s.form.Init()
}

func (s shiftsModel) updateForm(msg tea.Msg) (shiftsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.submit()
	}
	return s, cmd
}

func (s shiftsModel) submit() tea.Cmd {
	f := s.fields
	repos := s.deps.Repos
	date := strings.TrimSpace(f.date)

	switch s.formType {
	case "gig":
		g, err := store.NewGig(date, f.family, f.start, f.end, f.notes)
		if err != nil {
			return errorCmd(err)
		}
		if _, err := repos.Gigs.Put(g); err != nil {
			return errorCmd(err)
		}
		return savedCmd(fmt.Sprintf("Booked %s on %s", g.FamilyName, dates.FormatDate(g.Date)))

	case "request":
		r, err := store.NewRequest(date, f.family, f.start, f.end, f.notes)
		if err != nil {
			return errorCmd(err)
		}
		if _, err := repos.Requests.Put(r); err != nil {
			return errorCmd(err)
		}
		return savedCmd(fmt.Sprintf("Requested %s on %s", r.FamilyName, dates.FormatDate(r.Date)))

	case "shift":
		l, err := store.NewShiftLog(date, f.start, f.end, f.family)
		if err != nil {
			return errorCmd(err)
		}
		if _, err := repos.ShiftLogs.Put(l); err != nil {
			return errorCmd(err)
		}
		return savedCmd(fmt.Sprintf("Logged shift %s-%s on %s", l.StartTime.Label(), l.EndTime.Label(), dates.FormatDate(l.Date)))
	}
	return nil
}

func (s shiftsModel) view() string {
	w := s.width - 4
	if s.formActive && s.form != nil {
		titles := map[string]string{"gig": "New Gig", "request": "New Request", "shift": "Log Shift"}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(titles[s.formType]), "", s.form.View())
		return panelStyle.Width(w).Render(content)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		s.renderWeek(w),
		s.renderRequests(w),
	)
}

func (s shiftsModel) renderWeek(w int) string {
	week := s.week()
	var rows []string
	rows = append(rows, titleStyle.Render("Week of "+dates.FormatWeekLabel(week)))
	rows = append(rows, mutedStyle.Render("  ←/h previous  →/right next"))
	rows = append(rows, "")

	for _, day := range week.Days() {
		gigs := store.OnDate(s.gigs, day)
		logs := store.OnDate(s.logs, day)
		label := fmt.Sprintf("  %-10s %-12s", dates.FormatDayName(day), dates.FormatDate(day))
		if day == s.deps.today() {
			label = accentStyle.Render(label)
		}
		if len(gigs) == 0 && len(logs) == 0 {
			rows = append(rows, label+mutedStyle.Render(" -"))
			continue
		}
		var parts []string
		for _, g := range gigs {
			parts = append(parts, highlightStyle.Render(fmt.Sprintf("%s %s-%s", g.FamilyName, g.StartTime.Label(), g.EndTime.Label())))
		}
		for _, l := range logs {
			worked := fmt.Sprintf("worked %s-%s", l.StartTime.Label(), l.EndTime.Label())
			if l.FamilyName != "" {
				worked += " (" + l.FamilyName + ")"
			}
			parts = append(parts, successStyle.Render(worked))
		}
		rows = append(rows, label+" "+strings.Join(parts, "  "))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  g: add gig  r: add request  s: log shift"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (s shiftsModel) renderRequests(w int) string {
	title := titleStyle.Render(fmt.Sprintf("Pending Requests (%d)", len(s.requests)))
	if len(s.requests) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No requests"),
		))
	}

	var rows []string
	rows = append(rows, title, "")
	for i, r := range s.requests {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := fmt.Sprintf("%s%-14s %-16s %s-%s", cursor, dates.FormatDate(r.Date), r.FamilyName, r.StartTime.Label(), r.EndTime.Label())
		if r.Notes != "" {
			row += "  " + r.Notes
		}
		rows = append(rows, style.Render(row))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  a: approve  x: decline"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
