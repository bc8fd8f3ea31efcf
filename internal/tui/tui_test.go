package tui

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/nannylog/internal/food"
	"github.com/sadopc/nannylog/internal/report"
	"github.com/sadopc/nannylog/internal/store"
	"github.com/sadopc/nannylog/internal/weather"
)

// Wednesday 2024-03-06, 10:00 local time.
var testNow = time.Date(2024, 3, 6, 10, 0, 0, 0, time.Local)

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Deps{
		Repos:     store.NewRepos(store.NewMemBackend(), logger),
		Log:       logger,
		ExportDir: t.TempDir(),
		Now:       func() time.Time { return testNow },
	}.withDefaults()
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mustLocation(t *testing.T, d Deps, name string, miles float64) store.SavedLocation {
	t.Helper()
	loc, err := store.NewLocation("", name, "", "", miles)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Repos.Locations.Put(loc); err != nil {
		t.Fatal(err)
	}
	return loc
}

func mustTrip(t *testing.T, d Deps, loc store.SavedLocation, date string) {
	t.Helper()
	e, err := store.NewTripEntry(&loc, date, "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Repos.Trips.Put(e); err != nil {
		t.Fatal(err)
	}
}

type fakeWeather struct {
	r  weather.Report
	ok bool
}

func (f fakeWeather) Lookup(context.Context) (weather.Report, bool) { return f.r, f.ok }

// ============================================================
// Helpers
// ============================================================

func TestFormatHelpers(t *testing.T) {
	if got := formatMiles(4.5); got != "4.5" {
		t.Fatalf("formatMiles = %q", got)
	}
	if got := formatMiles(12); got != "12" {
		t.Fatalf("formatMiles = %q", got)
	}
	if got := formatMoney(2.16); got != "$2.16" {
		t.Fatalf("formatMoney = %q", got)
	}
	if got := formatPrice(nil); got != "-" {
		t.Fatalf("formatPrice(nil) = %q", got)
	}
	five := 5.0
	if got := formatPrice(&five); got != "$5.00" {
		t.Fatalf("formatPrice = %q", got)
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct {
		cursor, n, want int
	}{
		{0, 0, 0},
		{3, 2, 1},
		{-1, 4, 0},
		{2, 5, 2},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cursor, tt.n); got != tt.want {
			t.Errorf("clampCursor(%d, %d) = %d, want %d", tt.cursor, tt.n, got, tt.want)
		}
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != int(viewReport)+1 {
		t.Fatalf("expected %d view names, got %d", int(viewReport)+1, len(viewNames))
	}
}

func TestDepsDefaults(t *testing.T) {
	d := Deps{}.withDefaults()
	if d.MileageRate != report.MileageRate {
		t.Fatalf("mileage rate = %v", d.MileageRate)
	}
	if d.PunctualityWindow != report.PunctualityWindow {
		t.Fatalf("punctuality window = %d", d.PunctualityWindow)
	}
	if d.IntakeDays != report.IntakeWindowDays {
		t.Fatalf("intake days = %d", d.IntakeDays)
	}
	if d.Matcher == nil || d.Log == nil || d.Now == nil || d.Context == nil {
		t.Fatal("defaults should fill matcher, logger, clock and context")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := NewApp(newTestDeps(t))

	if app.activeView != viewToday {
		t.Fatal("default view should be today")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app := NewApp(newTestDeps(t))
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(App)

	for v := range viewNames {
		app.activeView = viewState(v)
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := NewApp(newTestDeps(t))
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(newTestDeps(t))
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := NewApp(newTestDeps(t))
	app.width = 120
	app.height = 40

	model, _ := app.Update(statusMsg{text: "test status"})
	app = model.(App)
	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
	if !strings.Contains(app.renderFooter(), "Mar 6, 2024") {
		t.Fatal("footer should show today's date")
	}
}

func TestAppSavedMsgRefreshes(t *testing.T) {
	app := NewApp(newTestDeps(t))
	model, cmd := app.Update(savedMsg{text: "Saved Zoo"})
	app = model.(App)
	if app.status != "Saved Zoo" || app.statusErr {
		t.Fatalf("status = %q (err %v)", app.status, app.statusErr)
	}
	if cmd == nil {
		t.Fatal("saving should refresh the views")
	}
}

func TestAppTabSwitching(t *testing.T) {
	app := NewApp(newTestDeps(t))
	model, _ := app.Update(runeKey("3"))
	app = model.(App)
	if app.activeView != viewShifts {
		t.Fatalf("active view = %d, want shifts", app.activeView)
	}
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewMeals {
		t.Fatalf("active view = %d, want meals", app.activeView)
	}
}

func TestAppRoutesDataToInactiveView(t *testing.T) {
	d := newTestDeps(t)
	mustLocation(t, d, "Zoo", 12)
	app := NewApp(d)

	msg := app.trips.refresh()()
	model, _ := app.Update(msg)
	app = model.(App)
	if app.activeView != viewToday {
		t.Fatal("routing data should not switch views")
	}
	if len(app.trips.locations) != 1 {
		t.Fatalf("trips view got %d locations, want 1", len(app.trips.locations))
	}
}

func TestAppWeather(t *testing.T) {
	d := newTestDeps(t)
	app := NewApp(d)
	if app.fetchWeather() != nil {
		t.Fatal("no weather source means no lookup")
	}

	d.Weather = fakeWeather{r: weather.Report{TempF: 62, Description: "Partly cloudy", Icon: weather.Cloud}, ok: true}
	app = NewApp(d)
	msg := app.fetchWeather()()
	model, _ := app.Update(msg)
	app = model.(App)
	if !strings.Contains(app.today.weather, "62°F Partly cloudy") {
		t.Fatalf("today weather = %q", app.today.weather)
	}

	d.Weather = fakeWeather{}
	app = NewApp(d)
	if wm, ok := app.fetchWeather()().(weatherMsg); !ok || wm.text != "" {
		t.Fatalf("failed lookup should yield an empty weather message, got %#v", wm)
	}
}

func TestAppExportPicker(t *testing.T) {
	app := NewApp(newTestDeps(t))
	model, _ := app.Update(runeKey("e"))
	if model.(App).exportPicking {
		t.Fatal("export picker should only open on the report view")
	}

	app.activeView = viewReport
	model, _ = app.Update(runeKey("e"))
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("e on the report view should open the export picker")
	}
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.(App).exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppDoExport(t *testing.T) {
	d := newTestDeps(t)
	mustTrip(t, d, mustLocation(t, d, "Zoo", 4), "2024-03-06")
	app := NewApp(d)

	for i, ext := range []string{".csv", ".json"} {
		msg, ok := app.doExport(i)().(exportDoneMsg)
		if !ok {
			t.Fatalf("export %s did not finish", ext)
		}
		if filepath.Ext(msg.path) != ext {
			t.Fatalf("export path %q, want %s", msg.path, ext)
		}
		if _, err := os.Stat(msg.path); err != nil {
			t.Fatalf("export file missing: %v", err)
		}
	}
}

// ============================================================
// Today
// ============================================================

func TestTodayRefresh(t *testing.T) {
	d := newTestDeps(t)
	late, _ := store.NewGig("2024-03-06", "Park", "810", "5", "")
	early, _ := store.NewGig("2024-03-06", "Lee", "8", "5", "")
	other, _ := store.NewGig("2024-03-07", "Lee", "8", "5", "")
	for _, g := range []store.Gig{late, early, other} {
		d.Repos.Gigs.Put(g)
	}
	req, _ := store.NewRequest("2024-03-08", "Kim", "8", "5", "")
	d.Repos.Requests.Put(req)

	today := newTodayModel(d)
	today, _ = today.update(today.refresh()())
	if len(today.gigs) != 2 || today.gigs[0].FamilyName != "Lee" {
		t.Fatalf("today gigs = %+v", today.gigs)
	}
	if today.pending != 1 {
		t.Fatalf("pending = %d, want 1", today.pending)
	}
	if today.punctuality.Percent != nil {
		t.Fatal("no shifts logged means no punctuality")
	}
}

// ============================================================
// Trips
// ============================================================

func TestTripsLogWithoutLocation(t *testing.T) {
	p := newTripsModel(newTestDeps(t))
	_, cmd := p.update(runeKey("l"))
	if _, ok := cmd().(statusMsg); !ok {
		t.Fatal("logging without a location should report a status")
	}
}

func TestTripsFormOpensAndCancels(t *testing.T) {
	p := newTripsModel(newTestDeps(t))
	p, _ = p.update(runeKey("n"))
	if !p.formActive || p.formType != "location" {
		t.Fatal("n should open the new location form")
	}
	p, _ = p.update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.formActive {
		t.Fatal("esc should cancel the form")
	}
}

func TestTripsSubmitLocation(t *testing.T) {
	d := newTestDeps(t)
	p := newTripsModel(d)
	p.formType = "location"
	*p.fields = tripFields{name: "Lafayette Library", nickname: "Library", miles: "6.2"}

	if _, ok := p.submit()().(savedMsg); !ok {
		t.Fatal("valid location should save")
	}
	locs := d.Repos.Locations.LoadAll()
	if len(locs) != 1 || locs[0].DisplayName() != "Library" || locs[0].RoundTripMiles != 6.2 {
		t.Fatalf("locations = %+v", locs)
	}

	*p.fields = tripFields{name: "Pool", miles: "far"}
	if msg, ok := p.submit()().(statusMsg); !ok || !msg.isError {
		t.Fatal("bad miles should fail")
	}
}

func TestTripsSubmitTrip(t *testing.T) {
	d := newTestDeps(t)
	mustLocation(t, d, "Zoo", 12)
	p := newTripsModel(d)
	p, _ = p.update(p.refresh()())

	p.formType = "trip"
	*p.fields = tripFields{date: "2024-03-06", notes: "lions", parking: "5"}
	if _, ok := p.submit()().(savedMsg); !ok {
		t.Fatal("trip should save")
	}

	trips := d.Repos.Trips.LoadAll()
	if len(trips) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(trips))
	}
	if trips[0].LocationName != "Zoo" || trips[0].RoundTripMiles != 12 || trips[0].ParkingPrice == nil {
		t.Fatalf("trip = %+v", trips[0])
	}
	if trips[0].TicketsPrice != nil {
		t.Fatal("blank tickets should be absent")
	}
}

func TestTripsDeleteLocation(t *testing.T) {
	d := newTestDeps(t)
	mustLocation(t, d, "Zoo", 12)
	p := newTripsModel(d)
	p, _ = p.update(p.refresh()())

	_, cmd := p.update(runeKey("d"))
	if _, ok := cmd().(savedMsg); !ok {
		t.Fatal("delete should report saved")
	}
	if n := len(d.Repos.Locations.LoadAll()); n != 0 {
		t.Fatalf("expected no locations, got %d", n)
	}
}

// ============================================================
// Shifts
// ============================================================

func TestShiftsApproveAndDecline(t *testing.T) {
	d := newTestDeps(t)
	first, _ := store.NewRequest("2024-03-07", "Park", "8", "5", "")
	second, _ := store.NewRequest("2024-03-08", "Lee", "805", "505", "")
	d.Repos.Requests.Put(first)
	d.Repos.Requests.Put(second)

	s := newShiftsModel(d)
	s, _ = s.update(s.refresh()())
	if len(s.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(s.requests))
	}

	_, cmd := s.update(runeKey("a"))
	if _, ok := cmd().(savedMsg); !ok {
		t.Fatal("approve should save")
	}
	gigs := d.Repos.Gigs.LoadAll()
	if len(gigs) != 1 || gigs[0].ID != first.ID {
		t.Fatalf("gigs = %+v", gigs)
	}

	s, _ = s.update(s.refresh()())
	_, cmd = s.update(runeKey("x"))
	if _, ok := cmd().(savedMsg); !ok {
		t.Fatal("decline should save")
	}
	if n := len(d.Repos.Requests.LoadAll()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
	if n := len(d.Repos.Gigs.LoadAll()); n != 1 {
		t.Fatalf("decline should not add a gig, got %d", n)
	}
}

func TestShiftsWeekNavigation(t *testing.T) {
	s := newShiftsModel(newTestDeps(t))
	if s.week().Start != "2024-03-04" {
		t.Fatalf("week start = %s", s.week().Start)
	}
	s, _ = s.update(tea.KeyMsg{Type: tea.KeyLeft})
	if s.week().Start != "2024-02-26" {
		t.Fatalf("previous week start = %s", s.week().Start)
	}
}

func TestShiftsSubmit(t *testing.T) {
	d := newTestDeps(t)
	s := newShiftsModel(d)

	s.formType = "shift"
	*s.fields = shiftFields{date: "2024-03-06", start: "810", end: "505"}
	if _, ok := s.submit()().(savedMsg); !ok {
		t.Fatal("shift log should save")
	}
	logs := d.Repos.ShiftLogs.LoadAll()
	if len(logs) != 1 || logs[0].StartTime != store.Start810 {
		t.Fatalf("logs = %+v", logs)
	}

	s.formType = "gig"
	*s.fields = shiftFields{date: "2024-03-06", start: "8", end: "5"}
	if msg, ok := s.submit()().(statusMsg); !ok || !msg.isError {
		t.Fatal("gig without a family should fail")
	}
}

// ============================================================
// Meals
// ============================================================

func TestMealsSaveCreatesThenUpdates(t *testing.T) {
	d := newTestDeps(t)
	m := newMealsModel(d)

	if _, ok := m.save(func(n *store.MealNote) { n.Notes = "apple and rice" }, "ok")().(savedMsg); !ok {
		t.Fatal("save should succeed")
	}
	if _, ok := m.save(func(n *store.MealNote) {
		n.GroceryList = store.AddGrocery(n.GroceryList, "milk")
	}, "ok")().(savedMsg); !ok {
		t.Fatal("second save should succeed")
	}

	notes := d.Repos.MealNotes.LoadAll()
	if len(notes) != 1 {
		t.Fatalf("expected one note for the day, got %d", len(notes))
	}
	if notes[0].Date != "2024-03-06" || notes[0].Notes != "apple and rice" {
		t.Fatalf("note = %+v", notes[0])
	}
	if len(notes[0].GroceryList) != 1 || notes[0].GroceryList[0] != "milk" {
		t.Fatalf("grocery list = %v", notes[0].GroceryList)
	}

	m, _ = m.update(m.refresh()())
	if m.stats[food.Fruit] != 1 || m.stats[food.Grain] != 1 {
		t.Fatalf("intake stats = %v", m.stats)
	}

	_, cmd := m.update(runeKey("d"))
	cmd()
	if n, _ := store.FindLatestByDate(d.Repos.MealNotes.LoadAll(), "2024-03-06"); len(n.GroceryList) != 0 {
		t.Fatalf("grocery list after remove = %v", n.GroceryList)
	}
}

func TestMealsIgnoresStaleData(t *testing.T) {
	m := newMealsModel(newTestDeps(t))
	stale := mealsDataMsg{date: "2024-03-06", note: &store.MealNote{Notes: "old"}}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.update(stale)
	if m.note != nil {
		t.Fatal("data for another day should be ignored")
	}
}

// ============================================================
// Journal
// ============================================================

func TestJournalSaveCare(t *testing.T) {
	d := newTestDeps(t)
	j := newJournalModel(d)
	*j.fields = journalFields{content: "Park day", mood: string(store.MoodHappy)}
	if _, ok := j.saveCare()().(savedMsg); !ok {
		t.Fatal("care note should save")
	}
	*j.fields = journalFields{content: "Park day, then naps", mood: string(store.MoodSleepy)}
	j.saveCare()()

	notes := d.Repos.CareNotes.LoadAll()
	if len(notes) != 1 {
		t.Fatalf("expected one note, got %d", len(notes))
	}
	if notes[0].Content != "Park day, then naps" || notes[0].Mood != store.MoodSleepy {
		t.Fatalf("note = %+v", notes[0])
	}

	*j.fields = journalFields{content: "x", mood: "ecstatic"}
	if msg, ok := j.saveCare()().(statusMsg); !ok || !msg.isError {
		t.Fatal("unknown mood should fail")
	}
}

func TestJournalSaveInternal(t *testing.T) {
	d := newTestDeps(t)
	j := newJournalModel(d)
	*j.fields = journalFields{content: "ask about Friday"}
	if _, ok := j.saveInternal()().(savedMsg); !ok {
		t.Fatal("internal note should save")
	}
	j, _ = j.update(j.refresh()())
	if j.internal == nil || j.internal.Content != "ask about Friday" {
		t.Fatalf("internal = %+v", j.internal)
	}
	if j.care != nil {
		t.Fatal("internal notes are not care notes")
	}
}

func TestJournalWriteDigestAndReceipt(t *testing.T) {
	d := newTestDeps(t)
	j := newJournalModel(d)

	msg, ok := j.writeDigest()().(exportDoneMsg)
	if !ok {
		t.Fatal("digest should be written")
	}
	data, err := os.ReadFile(msg.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "Kid Journal") {
		t.Fatalf("digest = %q", data)
	}
	if filepath.Base(msg.path) != "kid-journal-week-2024-03-04-2024-03-10.txt" {
		t.Fatalf("digest path = %s", msg.path)
	}

	msg, ok = j.writeReceipt()().(exportDoneMsg)
	if !ok {
		t.Fatal("receipt should be written")
	}
	data, err = os.ReadFile(msg.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "(No notes saved)") {
		t.Fatal("empty day receipt should say no notes were saved")
	}
}

// ============================================================
// Report
// ============================================================

func TestReportRefresh(t *testing.T) {
	d := newTestDeps(t)
	mustTrip(t, d, mustLocation(t, d, "Library", 4), "2024-03-06")
	r := newReportModel(d)
	r.setSize(120, 40)

	r, _ = r.update(r.refresh()())
	if r.mileage.TotalMiles != 4 {
		t.Fatalf("total miles = %v", r.mileage.TotalMiles)
	}
	if r.mileage.MileageCost != 4*report.MileageRate {
		t.Fatalf("cost = %v", r.mileage.MileageCost)
	}
	if !strings.Contains(r.view(), "Library") {
		t.Fatal("report should list the trip")
	}
}

func TestReportNavigation(t *testing.T) {
	r := newReportModel(newTestDeps(t))
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyRight})
	if r.offset != 0 {
		t.Fatal("report should not move past the current week")
	}
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyLeft})
	if r.date() != "2024-02-28" || r.week().Start != "2024-02-26" {
		t.Fatalf("previous week date = %s", r.date())
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"greeting", func() string { return greetingStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"secondary", func() string { return secondaryStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}

func TestRenderSegments(t *testing.T) {
	m := food.NewMatcher(food.DefaultTaxonomy())
	out := renderSegments(m.Colorize("an apple today"))
	for _, part := range []string{"an ", "apple", " today"} {
		if !strings.Contains(out, part) {
			t.Fatalf("rendered %q missing %q", out, part)
		}
	}
	if !strings.Contains(categoryDot(m.Taxonomy(), food.Fruit), "●") {
		t.Fatal("category dot should be a bullet")
	}
}
