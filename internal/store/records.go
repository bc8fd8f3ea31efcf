package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sadopc/nannylog/internal/dates"
)

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}

// ParsePrice reads an optional price. Blank, non-numeric, negative or
// non-finite input is absent rather than zero.
func ParsePrice(s string) *float64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseMiles reads a non-negative mileage.
func ParseMiles(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: invalid mileage %q", ErrValidation, s)
	}
	return v, nil
}

func checkDate(date string) error {
	if !dates.Valid(date) {
		return fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	return nil
}

// NewLocation validates and builds a saved location. A blank id gets a
// fresh one; pass an existing id to edit.
func NewLocation(id, name, nickname, address string, miles float64) (SavedLocation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SavedLocation{}, fmt.Errorf("%w: location name is required", ErrValidation)
	}
	if miles < 0 || math.IsNaN(miles) || math.IsInf(miles, 0) {
		return SavedLocation{}, fmt.Errorf("%w: round trip miles must be >= 0", ErrValidation)
	}
	if id == "" {
		id = NewID()
	}
	return SavedLocation{
		ID:             id,
		Name:           name,
		Nickname:       strings.TrimSpace(nickname),
		Address:        strings.TrimSpace(address),
		RoundTripMiles: miles,
	}, nil
}

// NewTripEntry logs a trip to loc on date, snapshotting its name and miles.
// A nil location is rejected before any record exists.
func NewTripEntry(loc *SavedLocation, date, notes, parking, tickets string) (TripEntry, error) {
	if loc == nil || loc.ID == "" {
		return TripEntry{}, fmt.Errorf("%w: a location must be selected", ErrValidation)
	}
	if err := checkDate(date); err != nil {
		return TripEntry{}, err
	}
	return TripEntry{
		ID:             NewID(),
		Date:           date,
		LocationID:     loc.ID,
		LocationName:   loc.Name,
		RoundTripMiles: loc.RoundTripMiles,
		Notes:          strings.TrimSpace(notes),
		ParkingPrice:   ParsePrice(parking),
		TicketsPrice:   ParsePrice(tickets),
	}, nil
}

// NewGig builds a confirmed shift.
func NewGig(date, family, start, end, notes string) (Gig, error) {
	if err := checkDate(date); err != nil {
		return Gig{}, err
	}
	family = strings.TrimSpace(family)
	if family == "" {
		return Gig{}, fmt.Errorf("%w: family name is required", ErrValidation)
	}
	st, err := ParseStartTime(start)
	if err != nil {
		return Gig{}, err
	}
	et, err := ParseEndTime(end)
	if err != nil {
		return Gig{}, err
	}
	return Gig{
		ID:         NewID(),
		Date:       date,
		FamilyName: family,
		StartTime:  st,
		EndTime:    et,
		Notes:      strings.TrimSpace(notes),
	}, nil
}

// NewRequest builds a proposed shift; same rules as NewGig.
func NewRequest(date, family, start, end, notes string) (Request, error) {
	g, err := NewGig(date, family, start, end, notes)
	if err != nil {
		return Request{}, err
	}
	return Request(g), nil
}

// NewShiftLog records a worked shift.
func NewShiftLog(date, start, end, family string) (ShiftLog, error) {
	if err := checkDate(date); err != nil {
		return ShiftLog{}, err
	}
	st, err := ParseStartTime(start)
	if err != nil {
		return ShiftLog{}, err
	}
	et, err := ParseEndTime(end)
	if err != nil {
		return ShiftLog{}, err
	}
	return ShiftLog{
		ID:         NewID(),
		Date:       date,
		StartTime:  st,
		EndTime:    et,
		FamilyName: strings.TrimSpace(family),
	}, nil
}

// AddGrocery appends item unless it is blank or already listed. The
// comparison is case-sensitive.
func AddGrocery(list []string, item string) []string {
	item = strings.TrimSpace(item)
	out := append([]string(nil), list...)
	if item == "" {
		return out
	}
	for _, it := range list {
		if it == item {
			return out
		}
	}
	return append(out, item)
}

// RemoveGrocery drops the entry at idx; out-of-range indexes are ignored.
func RemoveGrocery(list []string, idx int) []string {
	out := append([]string(nil), list...)
	if idx < 0 || idx >= len(out) {
		return out
	}
	return append(out[:idx], out[idx+1:]...)
}

// RecentCareNotes returns the n most recent non-blank care notes, newest
// date first.
func RecentCareNotes(notes []CareNote, n int) []CareNote {
	var filled []CareNote
	for _, note := range notes {
		if strings.TrimSpace(note.Content) != "" {
			filled = append(filled, note)
		}
	}
	filled = SortByDate(filled, true)
	if len(filled) > n {
		filled = filled[:n]
	}
	return filled
}
