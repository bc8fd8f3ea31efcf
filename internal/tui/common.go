package tui

import (
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewTrips
	viewShifts
	viewMeals
	viewJournal
	viewReport
)

var viewNames = []string{"Today", "Trips", "Shifts", "Meals", "Journal", "Report"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type weatherMsg struct {
	text string // empty when unavailable
}

type exportDoneMsg struct {
	path string
}

// savedMsg tells the app that a collection changed so other views reload.
type savedMsg struct {
	text string
}

// --- Helpers ---

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true} }
}

func savedCmd(text string) tea.Cmd {
	return func() tea.Msg { return savedMsg{text: text} }
}

func formatMiles(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return formatMoney(*p)
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
