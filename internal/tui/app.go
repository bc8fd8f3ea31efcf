// Package tui is the interactive boundary of nannylog. Views read the
// store collections, hand records built by the store constructors back to
// them, and render report results.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/export"
	"github.com/sadopc/nannylog/internal/food"
	"github.com/sadopc/nannylog/internal/report"
	"github.com/sadopc/nannylog/internal/store"
	"github.com/sadopc/nannylog/internal/weather"
)

// WeatherSource looks up the current conditions; ok is false on any failure.
type WeatherSource interface {
	Lookup(ctx context.Context) (weather.Report, bool)
}

// Deps are what the views need from the rest of the program.
type Deps struct {
	Repos             *store.Repos
	Matcher           *food.Matcher
	Weather           WeatherSource // optional
	Log               *slog.Logger
	MileageRate       float64
	PunctualityWindow int
	IntakeDays        int
	ExportDir         string
	Now               func() time.Time
	Context           context.Context
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Context == nil {
		d.Context = context.Background()
	}
	if d.Matcher == nil {
		d.Matcher = food.NewMatcher(food.DefaultTaxonomy())
	}
	if d.MileageRate <= 0 {
		d.MileageRate = report.MileageRate
	}
	if d.PunctualityWindow <= 0 {
		d.PunctualityWindow = report.PunctualityWindow
	}
	if d.IntakeDays <= 0 {
		d.IntakeDays = report.IntakeWindowDays
	}
	return d
}

func (d Deps) today() string {
	return dates.Key(d.Now())
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today   todayModel
	trips   tripsModel
	shifts  shiftsModel
	meals   mealsModel
	journal journalModel
	report  reportModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(d Deps) App {
	d = d.withDefaults()
	h := help.New()
	h.ShowAll = false

	return App{
		deps:       d,
		activeView: viewToday,
		today:      newTodayModel(d),
		trips:      newTripsModel(d),
		shifts:     newShiftsModel(d),
		meals:      newMealsModel(d),
		journal:    newJournalModel(d),
		report:     newReportModel(d),
		help:       h,
	}
}

// Run starts the program and blocks until the user quits. Pending weather
// lookups are canceled on return.
func Run(d Deps) error {
	ctx, cancel := context.WithCancel(orBackground(d.Context))
	defer cancel()
	d.Context = ctx

	p := tea.NewProgram(NewApp(d), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.today.refresh(),
		a.fetchWeather(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchWeather runs one lookup in the background. There is no retry.
func (a App) fetchWeather() tea.Cmd {
	src := a.deps.Weather
	if src == nil {
		return nil
	}
	ctx := a.deps.Context
	return func() tea.Msg {
		r, ok := src.Lookup(ctx)
		if !ok {
			return weatherMsg{}
		}
		return weatherMsg{text: r.Icon.Glyph() + " " + r.String()}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.trips.setSize(a.width, contentHeight)
		a.shifts.setSize(a.width, contentHeight)
		a.meals.setSize(a.width, contentHeight)
		a.journal.setSize(a.width, contentHeight)
		a.report.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case a.activeView == viewReport && key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewToday)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewTrips)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewShifts)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewMeals)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewJournal)
		case key.Matches(msg, keys.Tab6):
			return a.switchTo(viewReport)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, tea.Batch(cmd, tickCmd())

	case weatherMsg:
		a.today.weather = msg.text
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		if msg.isError {
			a.deps.Log.Warn("action failed", "status", msg.text)
		}
		return a, nil

	case savedMsg:
		a.status = msg.text
		a.statusErr = false
		a.deps.Log.Debug("saved", "status", msg.text)
		return a, a.refreshAll()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		a.deps.Log.Info("exported", "path", msg.path)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

// routeData hands a loaded-data message to the view that asked for it, no
// matter which view is active.
func (a App) routeData(msg tea.Msg) (App, tea.Cmd, bool) {
	var cmd tea.Cmd
	switch msg.(type) {
	case todayDataMsg:
		a.today, cmd = a.today.update(msg)
	case tripsDataMsg:
		a.trips, cmd = a.trips.update(msg)
	case shiftsDataMsg:
		a.shifts, cmd = a.shifts.update(msg)
	case mealsDataMsg:
		a.meals, cmd = a.meals.update(msg)
	case journalDataMsg:
		a.journal, cmd = a.journal.update(msg)
	case reportDataMsg:
		a.report, cmd = a.report.update(msg)
	default:
		return a, nil, false
	}
	return a, cmd, true
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if routed, cmd, ok := a.routeData(msg); ok {
		return routed, cmd
	}

	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewTrips:
		a.trips, cmd = a.trips.update(msg)
	case viewShifts:
		a.shifts, cmd = a.shifts.update(msg)
	case viewMeals:
		a.meals, cmd = a.meals.update(msg)
	case viewJournal:
		a.journal, cmd = a.journal.update(msg)
	case viewReport:
		a.report, cmd = a.report.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTrips:
		return a.trips.formActive
	case viewShifts:
		return a.shifts.formActive
	case viewMeals:
		return a.meals.formActive
	case viewJournal:
		return a.journal.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.refresh()
	case viewTrips:
		return a.trips.refresh()
	case viewShifts:
		return a.shifts.refresh()
	case viewMeals:
		return a.meals.refresh()
	case viewJournal:
		return a.journal.refresh()
	case viewReport:
		return a.report.refresh()
	}
	return nil
}

func (a App) refreshAll() tea.Cmd {
	return tea.Batch(
		a.today.refresh(),
		a.trips.refresh(),
		a.shifts.refresh(),
		a.meals.refresh(),
		a.journal.refresh(),
		a.report.refresh(),
	)
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewTrips:
		content = a.trips.view()
	case viewShifts:
		content = a.shifts.view()
	case viewMeals:
		content = a.meals.view()
	case viewJournal:
		content = a.journal.view()
	case viewReport:
		content = a.report.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("nannylog")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	right := mutedStyle.Render(dates.FormatDate(a.deps.today())) + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Week " + dates.FormatWeekLabel(a.report.week()))
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	d := a.deps
	date := a.report.date()
	return func() tea.Msg {
		r := report.Mileage(d.Repos.Trips.LoadAll(), date, d.MileageRate)

		var path string
		if format == 0 {
			path = filepath.Join(d.ExportDir, export.Filename(r.Range, "csv"))
			if err := export.ToCSV(r, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(d.ExportDir, export.Filename(r.Range, "json"))
			if err := export.ToJSON(r, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
