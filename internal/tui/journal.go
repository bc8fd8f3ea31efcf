package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/export"
	"github.com/sadopc/nannylog/internal/report"
	"github.com/sadopc/nannylog/internal/store"
)

const recentNoteCount = 10

type journalFields struct {
	content string
	mood    string
}

type journalModel struct {
	deps   Deps
	width  int
	height int

	offset   int // days from today
	care     *store.CareNote
	internal *store.InternalNote
	recent   []store.CareNote

	formActive bool
	form       *huh.Form
	formType   string // "care", "internal"
	fields     *journalFields
}

func newJournalModel(d Deps) journalModel {
	return journalModel{deps: d, fields: &journalFields{}}
}

func (j *journalModel) setSize(w, h int) {
	j.width = w
	j.height = h
}

func (j journalModel) date() string {
	return dates.AddDays(j.deps.today(), j.offset)
}

type journalDataMsg struct {
	date     string
	care     *store.CareNote
	internal *store.InternalNote
	recent   []store.CareNote
}

func (j journalModel) refresh() tea.Cmd {
	d := j.deps
	date := j.date()
	return func() tea.Msg {
		notes := d.Repos.CareNotes.LoadAll()
		msg := journalDataMsg{date: date, recent: store.RecentCareNotes(notes, recentNoteCount)}
		if n, ok := store.FindLatestByDate(notes, date); ok {
			msg.care = &n
		}
		if n, ok := store.FindLatestByDate(d.Repos.InternalNotes.LoadAll(), date); ok {
			msg.internal = &n
		}
		return msg
	}
}

func (j journalModel) update(msg tea.Msg) (journalModel, tea.Cmd) {
	if j.formActive && j.form != nil {
		return j.updateForm(msg)
	}

	switch msg := msg.(type) {
	case journalDataMsg:
		if msg.date != j.date() {
			return j, nil
		}
		j.care = msg.care
		j.internal = msg.internal
		j.recent = msg.recent
		return j, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			j.offset--
			return j, j.refresh()
		case key.Matches(msg, keys.Right):
			j.offset++
			return j, j.refresh()
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return j.showCareForm()
		case key.Matches(msg, keys.Internal):
			return j.showInternalForm()
		case key.Matches(msg, keys.Digest):
			return j, j.writeDigest()
		case key.Matches(msg, keys.Receipt):
			return j, j.writeReceipt()
		}
	}
	return j, nil
}

func moodOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, m := range store.Moods {
		opts = append(opts, huh.NewOption(string(m), string(m)))
	}
	return opts
}

func (j journalModel) showCareForm() (journalModel, tea.Cmd) {
	*j.fields = journalFields{}
	if j.care != nil {
		j.fields.content = j.care.Content
		j.fields.mood = string(j.care.Mood)
	}
	j.formType = "care"
	j.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("How was the day?").Value(&j.fields.content),
			huh.NewSelect[string]().Title("Mood").Options(moodOptions()...).Value(&j.fields.mood),
		),
	).WithShowHelp(true).WithShowErrors(true)
	j.formActive = true
	return j, j.form.Init()
}

func (j journalModel) showInternalForm() (journalModel, tea.Cmd) {
	*j.fields = journalFields{}
	if j.internal != nil {
		j.fields.content = j.internal.Content
	}
	j.formType = "internal"
	j.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Private note (not shared)").Value(&j.fields.content),
		),
	).WithShowHelp(true).WithShowErrors(true)
	j.formActive = true
	return j, j.form.Init()
}

func (j journalModel) updateForm(msg tea.Msg) (journalModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			j.formActive = false
			j.form = nil
			return j, nil
		}
	}

	form, cmd := j.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		j.form = f
	}

	if j.form.State == huh.StateCompleted {
		j.formActive = false
		if j.formType == "internal" {
			return j, j.saveInternal()
		}
		return j, j.saveCare()
	}
	return j, cmd
}

func (j journalModel) saveCare() tea.Cmd {
	repos := j.deps.Repos
	date := j.date()
	f := *j.fields
	return func() tea.Msg {
		mood, err := store.ParseMood(f.mood)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		n, ok := store.FindLatestByDate(repos.CareNotes.LoadAll(), date)
		if !ok {
			n = store.CareNote{ID: store.NewID(), Date: date}
		}
		n.Content = f.content
		n.Mood = mood
		if _, err := repos.CareNotes.Put(n); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return savedMsg{text: "Journal saved"}
	}
}

func (j journalModel) saveInternal() tea.Cmd {
	repos := j.deps.Repos
	date := j.date()
	content := j.fields.content
	return func() tea.Msg {
		n, ok := store.FindLatestByDate(repos.InternalNotes.LoadAll(), date)
		if !ok {
			n = store.InternalNote{ID: store.NewID(), Date: date}
		}
		n.Content = content
		if _, err := repos.InternalNotes.Put(n); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return savedMsg{text: "Internal note saved"}
	}
}

func (j journalModel) writeDigest() tea.Cmd {
	d := j.deps
	date := j.date()
	return func() tea.Msg {
		r := dates.WeekRange(date)
		digest := report.JournalDigest(d.Repos.CareNotes.LoadAll(), d.Repos.Trips.LoadAll(), date)
		path := filepath.Join(d.ExportDir, report.DigestFilename(r))
		if err := export.WriteText(path, digest); err != nil {
			return statusMsg{text: fmt.Sprintf("Digest error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (j journalModel) writeReceipt() tea.Cmd {
	d := j.deps
	date := j.date()
	return func() tea.Msg {
		var note *store.CareNote
		if n, ok := store.FindLatestByDate(d.Repos.CareNotes.LoadAll(), date); ok {
			note = &n
		}
		page, err := report.DayReceiptHTML(note, "", d.Repos.Trips.LoadAll(), date)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Receipt error: %v", err), isError: true}
		}
		path := filepath.Join(d.ExportDir, report.ReceiptFilename(date))
		if err := export.WriteText(path, page); err != nil {
			return statusMsg{text: fmt.Sprintf("Receipt error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (j journalModel) view() string {
	w := j.width - 4
	if j.formActive && j.form != nil {
		title := titleStyle.Render("Journal for " + dates.FormatDate(j.date()))
		if j.formType == "internal" {
			title = titleStyle.Render("Internal Note for " + dates.FormatDate(j.date()))
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", j.form.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		j.renderDay(w),
		j.renderRecent(w),
	)
}

func (j journalModel) renderDay(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Journal for "+dates.FormatDate(j.date())))
	rows = append(rows, mutedStyle.Render("  ←/h previous day  →/right next day"))
	rows = append(rows, "")

	if j.care == nil || strings.TrimSpace(j.care.Content) == "" {
		rows = append(rows, mutedStyle.Render("Nothing written yet. Press enter to write."))
	} else {
		if j.care.Mood != "" {
			rows = append(rows, accentStyle.Render("Mood: "+string(j.care.Mood)))
		}
		rows = append(rows, j.care.Content)
	}

	rows = append(rows, "")
	rows = append(rows, subtitleStyle.Render("Internal"))
	if j.internal == nil || strings.TrimSpace(j.internal.Content) == "" {
		rows = append(rows, mutedStyle.Render("-"))
	} else {
		rows = append(rows, j.internal.Content)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: write  i: internal note  w: week digest  o: day receipt"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (j journalModel) renderRecent(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Recent Entries"))
	if len(j.recent) == 0 {
		rows = append(rows, mutedStyle.Render("No entries yet"))
	}
	for _, n := range j.recent {
		first := strings.SplitN(strings.TrimSpace(n.Content), "\n", 2)[0]
		line := fmt.Sprintf("  %-14s %s", dates.FormatDate(n.Date), first)
		if n.Mood != "" {
			line += mutedStyle.Render("  (" + string(n.Mood) + ")")
		}
		rows = append(rows, line)
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
