package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/nannylog/internal/dates"
	"github.com/sadopc/nannylog/internal/store"
)

const recentTripCount = 8

type tripFields struct {
	name     string
	nickname string
	address  string
	miles    string
	date     string
	notes    string
	parking  string
	tickets  string
}

type tripsModel struct {
	deps   Deps
	width  int
	height int

	locations []store.SavedLocation
	recent    []store.TripEntry
	cursor    int

	formActive bool
	form       *huh.Form
	formType   string // "location", "edit_location", "trip"

	// Form field values (survive value copies)
	fields *tripFields

	editingID string // location being edited
}

func newTripsModel(d Deps) tripsModel {
	return tripsModel{deps: d, fields: &tripFields{}}
}

func (p *tripsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type tripsDataMsg struct {
	locations []store.SavedLocation
	recent    []store.TripEntry
}

func (p tripsModel) refresh() tea.Cmd {
	d := p.deps
	return func() tea.Msg {
		recent := store.SortByDate(d.Repos.Trips.LoadAll(), true)
		if len(recent) > recentTripCount {
			recent = recent[:recentTripCount]
		}
		return tripsDataMsg{locations: d.Repos.Locations.LoadAll(), recent: recent}
	}
}

func (p tripsModel) update(msg tea.Msg) (tripsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tripsDataMsg:
		p.locations = msg.locations
		p.recent = msg.recent
		p.cursor = clampCursor(p.cursor, len(p.locations))
		return p, nil

	case tea.KeyMsg:
		return p.updateLocationList(msg)
	}
	return p, nil
}

func (p tripsModel) selected() (store.SavedLocation, bool) {
	if p.cursor < 0 || p.cursor >= len(p.locations) {
		return store.SavedLocation{}, false
	}
	return p.locations[p.cursor], true
}

func (p tripsModel) updateLocationList(msg tea.KeyMsg) (tripsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.locations)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.New):
		return p.showLocationForm(store.SavedLocation{})
	case key.Matches(msg, keys.Edit):
		if loc, ok := p.selected(); ok {
			return p.showLocationForm(loc)
		}
	case key.Matches(msg, keys.Delete):
		if loc, ok := p.selected(); ok {
			if _, err := p.deps.Repos.Locations.Remove(loc.ID); err != nil {
				return p, errorCmd(err)
			}
			return p, savedCmd("Deleted " + loc.DisplayName())
		}
	case key.Matches(msg, keys.Log), key.Matches(msg, keys.Enter):
		if _, ok := p.selected(); ok {
			return p.showTripForm()
		}
		return p, statusCmd("Add a location first (n)")
	}
	return p, nil
}

func validateMiles(s string) error {
	_, err := store.ParseMiles(s)
	return err
}

func validateDate(s string) error {
	if !dates.Valid(strings.TrimSpace(s)) {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func validatePrice(s string) error {
	if strings.TrimSpace(s) != "" && store.ParsePrice(s) == nil {
		return fmt.Errorf("enter an amount like 5 or 12.50, or leave blank")
	}
	return nil
}

func (p tripsModel) showLocationForm(loc store.SavedLocation) (tripsModel, tea.Cmd) {
	*p.fields = tripFields{
		name:     loc.Name,
		nickname: loc.Nickname,
		address:  loc.Address,
		miles:    formatMiles(loc.RoundTripMiles),
	}
	p.formType = "location"
	p.editingID = ""
	if loc.ID != "" {
		p.formType = "edit_location"
		p.editingID = loc.ID
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Place Name").Value(&p.fields.name),
			huh.NewInput().Title("Nickname (optional)").Value(&p.fields.nickname),
			huh.NewInput().Title("Address").Value(&p.fields.address),
			huh.NewInput().Title("Round Trip Miles").Value(&p.fields.miles).Validate(validateMiles),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p tripsModel) showTripForm() (tripsModel, tea.Cmd) {
	*p.fields = tripFields{date: p.deps.today()}
	p.formType = "trip"

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date").Value(&p.fields.date).Validate(validateDate),
			huh.NewInput().Title("Notes").Value(&p.fields.notes),
			huh.NewInput().Title("Parking $ (optional)").Value(&p.fields.parking).Validate(validatePrice),
			huh.NewInput().Title("Tickets $ (optional)").Value(&p.fields.tickets).Validate(validatePrice),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p tripsModel) updateForm(msg tea.Msg) (tripsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		return p, p.submit()
	}

	return p, cmd
}

func (p tripsModel) submit() tea.Cmd {
	f := p.fields
	repos := p.deps.Repos
	switch p.formType {
	case "location", "edit_location":
		miles, err := store.ParseMiles(f.miles)
		if err != nil {
			return errorCmd(err)
		}
		loc, err := store.NewLocation(p.editingID, f.name, f.nickname, f.address, miles)
		if err != nil {
			return errorCmd(err)
		}
		if _, err := repos.Locations.Put(loc); err != nil {
			return errorCmd(err)
		}
		return savedCmd("Saved " + loc.DisplayName())

	case "trip":
		loc, ok := p.selected()
		if !ok {
			return statusCmd("Select a location first")
		}
		entry, err := store.NewTripEntry(&loc, strings.TrimSpace(f.date), f.notes, f.parking, f.tickets)
		if err != nil {
			return errorCmd(err)
		}
		if _, err := repos.Trips.Put(entry); err != nil {
			return errorCmd(err)
		}
		return savedCmd(fmt.Sprintf("Logged %s mi to %s", formatMiles(entry.RoundTripMiles), entry.LocationName))
	}
	return nil
}

func (p tripsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Place")
		switch p.formType {
		case "edit_location":
			title = titleStyle.Render("Edit Place")
		case "trip":
			if loc, ok := p.selected(); ok {
				title = titleStyle.Render("Log Trip to " + loc.DisplayName())
			}
		}
		formView := p.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(p.width - 4).Render(content)
	}

	return lipgloss.JoinVertical(lipgloss.Left, p.renderLocationList(), p.renderRecent())
}

func (p tripsModel) renderLocationList() string {
	w := p.width - 4
	title := titleStyle.Render("Saved Places")

	if len(p.locations) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No places yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("  %-24s %-30s %8s", "Name", "Address", "Miles"))
	rows = append(rows, header)

	for i, loc := range p.locations {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%-24s %-30s %8s", cursor, loc.DisplayName(), loc.Address, formatMiles(loc.RoundTripMiles)))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  l/enter: log trip"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p tripsModel) renderRecent() string {
	w := p.width - 4
	title := titleStyle.Render("Recent Trips")
	if len(p.recent) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No trips logged"),
		))
	}

	var rows []string
	rows = append(rows, title)
	for _, e := range p.recent {
		row := fmt.Sprintf("  %-18s %-22s %6s mi", dates.FormatDate(e.Date), e.LocationName, formatMiles(e.RoundTripMiles))
		if e.ParkingPrice != nil || e.TicketsPrice != nil {
			row += mutedStyle.Render(fmt.Sprintf("  parking %s  tickets %s", formatPrice(e.ParkingPrice), formatPrice(e.TicketsPrice)))
		}
		rows = append(rows, row)
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
