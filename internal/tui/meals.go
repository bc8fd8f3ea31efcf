package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/food"
	"github.com/sadopc/nannylog/internal/report"
	"github.com/sadopc/nannylog/internal/store"
)

type mealFields struct {
	notes string
	item  string
}

type mealsModel struct {
	deps   Deps
	width  int
	height int

	offset int // days from today
	note   *store.MealNote
	stats  food.Stats
	cursor int // into the grocery list

	formActive bool
	form       *huh.Form
	formType   string // "notes", "grocery"
	fields     *mealFields
}

func newMealsModel(d Deps) mealsModel {
	return mealsModel{deps: d, fields: &mealFields{}}
}

func (m *mealsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m mealsModel) date() string {
	return dates.AddDays(m.deps.today(), m.offset)
}

type mealsDataMsg struct {
	date  string
	note  *store.MealNote
	stats food.Stats
}

func (m mealsModel) refresh() tea.Cmd {
	d := m.deps
	date := m.date()
	return func() tea.Msg {
		notes := d.Repos.MealNotes.LoadAll()
		msg := mealsDataMsg{
			date:  date,
			stats: report.Intake(d.Matcher, notes, d.today(), d.IntakeDays),
		}
		if n, ok := store.FindLatestByDate(notes, date); ok {
			msg.note = &n
		}
		return msg
	}
}

func (m mealsModel) groceries() []string {
	if m.note == nil {
		return nil
	}
	return m.note.GroceryList
}

func (m mealsModel) update(msg tea.Msg) (mealsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case mealsDataMsg:
		if msg.date != m.date() {
			return m, nil
		}
		m.note = msg.note
		m.stats = msg.stats
		m.cursor = clampCursor(m.cursor, len(m.groceries()))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset--
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			m.offset++
			return m, m.refresh()
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.groceries())-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return m.showNotesForm()
		case key.Matches(msg, keys.New):
			return m.showGroceryForm()
		case key.Matches(msg, keys.Delete):
			if len(m.groceries()) == 0 {
				return m, nil
			}
			idx := m.cursor
			return m, m.save(func(n *store.MealNote) {
				n.GroceryList = store.RemoveGrocery(n.GroceryList, idx)
			}, "Removed grocery item")
		}
	}
	return m, nil
}

func (m mealsModel) showNotesForm() (mealsModel, tea.Cmd) {
	*m.fields = mealFields{}
	if m.note != nil {
		m.fields.notes = m.note.Notes
	}
	m.formType = "notes"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("What did they eat?").Value(&m.fields.notes),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m mealsModel) showGroceryForm() (mealsModel, tea.Cmd) {
	*m.fields = mealFields{}
	m.formType = "grocery"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Grocery item").Value(&m.fields.item),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m mealsModel) updateForm(msg tea.Msg) (mealsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		f := *m.fields
		if m.formType == "grocery" {
			return m, m.save(func(n *store.MealNote) {
				n.GroceryList = store.AddGrocery(n.GroceryList, f.item)
			}, "Grocery list updated")
		}
		return m, m.save(func(n *store.MealNote) {
			n.Notes = f.notes
		}, "Meal notes saved")
	}
	return m, cmd
}

// save applies change to the note of the shown day, creating the note when
// the day has none yet.
func (m mealsModel) save(change func(*store.MealNote), done string) tea.Cmd {
	repos := m.deps.Repos
	date := m.date()
	return func() tea.Msg {
		n, ok := store.FindLatestByDate(repos.MealNotes.LoadAll(), date)
		if !ok {
			n = store.MealNote{ID: store.NewID(), Date: date, GroceryList: []string{}}
		}
		change(&n)
		if n.GroceryList == nil {
			n.GroceryList = []string{}
		}
		if _, err := repos.MealNotes.Put(n); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return savedMsg{text: done}
	}
}

func (m mealsModel) view() string {
	w := m.width - 4
	if m.formActive && m.form != nil {
		title := titleStyle.Render("Meals for " + dates.FormatDate(m.date()))
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderNotes(w),
		m.renderGroceries(w),
		m.renderIntake(w),
	)
}

func (m mealsModel) renderNotes(w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render("Meals for "+dates.FormatDate(m.date())))
	rows = append(rows, mutedStyle.Render("  ←/h previous day  →/right next day"))
	rows = append(rows, "")

	if m.note == nil || strings.TrimSpace(m.note.Notes) == "" {
		rows = append(rows, mutedStyle.Render("No meal notes. Press enter to write some."))
	} else {
		rows = append(rows, renderSegments(m.deps.Matcher.Colorize(m.note.Notes)))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m mealsModel) renderGroceries(w int) string {
	list := m.groceries()
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Grocery List (%d)", len(list))))
	if len(list) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing to buy"))
	}
	for i, item := range list {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+item))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: add item  d: remove item"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m mealsModel) renderIntake(w int) string {
	t := m.deps.Matcher.Taxonomy()
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Food Intake (last %d days)", m.deps.IntakeDays)))
	for _, cat := range food.Categories {
		label := food.CategoryLabels[cat]
		if label == "" {
			label = cat
		}
		rows = append(rows, fmt.Sprintf("  %s %-12s %d", categoryDot(t, cat), label, m.stats[cat]))
	}
	if low := food.Underrepresented(m.stats); len(low) > 0 {
		rows = append(rows, "")
		rows = append(rows, warningStyle.Render("  Offer more: "+strings.Join(low, ", ")))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
