package store

// Slot names, one JSON array per collection.
const (
	SlotLocations     = "nanny-locations"
	SlotTrips         = "nanny-entries"
	SlotGigs          = "nanny-gigs"
	SlotRequests      = "nanny-requests"
	SlotShiftLogs     = "nanny-shift-logs"
	SlotMealNotes     = "nanny-meal-notes"
	SlotCareNotes     = "nanny-care-notes"
	SlotInternalNotes = "nanny-internal-notes"
)

// Record is anything stored in a collection.
type Record interface {
	RecordID() string
}

// Dated is a record keyed by a calendar day.
type Dated interface {
	Record
	RecordDate() string
}

type SavedLocation struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Nickname       string  `json:"nickname,omitempty"`
	Address        string  `json:"address"`
	RoundTripMiles float64 `json:"roundTripMiles"`
}

// DisplayName prefers the nickname.
func (l SavedLocation) DisplayName() string {
	if l.Nickname != "" {
		return l.Nickname
	}
	return l.Name
}

// TripEntry snapshots the location name and mileage at logging time, so
// later edits to the location never change history.
type TripEntry struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	LocationID     string   `json:"locationId"`
	LocationName   string   `json:"locationName"`
	RoundTripMiles float64  `json:"roundTripMiles"`
	Notes          string   `json:"notes,omitempty"`
	ParkingPrice   *float64 `json:"parkingPrice,omitempty"`
	TicketsPrice   *float64 `json:"ticketsPrice,omitempty"`
}

// Gig is a confirmed shift. Several gigs may share a date.
type Gig struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	FamilyName string    `json:"familyName"`
	StartTime  StartTime `json:"startTime"`
	EndTime    EndTime   `json:"endTime"`
	Notes      string    `json:"notes,omitempty"`
}

// Request is a proposed shift awaiting approval.
type Request struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	FamilyName string    `json:"familyName"`
	StartTime  StartTime `json:"startTime"`
	EndTime    EndTime   `json:"endTime"`
	Notes      string    `json:"notes,omitempty"`
}

// AsGig converts an approved request, keeping its id.
func (r Request) AsGig() Gig {
	return Gig(r)
}

// ShiftLog is a shift actually worked.
type ShiftLog struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	StartTime  StartTime `json:"startTime"`
	EndTime    EndTime   `json:"endTime"`
	FamilyName string    `json:"familyName,omitempty"`
}

type MealNote struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Notes       string   `json:"notes"`
	GroceryList []string `json:"groceryList"`
}

type CareNote struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Content string `json:"content"`
	GifURL  string `json:"gifUrl,omitempty"`
	Mood    Mood   `json:"mood,omitempty"`
}

type InternalNote struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

func (l SavedLocation) RecordID() string { return l.ID }

func (e TripEntry) RecordID() string   { return e.ID }
func (e TripEntry) RecordDate() string { return e.Date }

func (g Gig) RecordID() string   { return g.ID }
func (g Gig) RecordDate() string { return g.Date }

func (r Request) RecordID() string   { return r.ID }
func (r Request) RecordDate() string { return r.Date }

func (l ShiftLog) RecordID() string   { return l.ID }
func (l ShiftLog) RecordDate() string { return l.Date }

func (n MealNote) RecordID() string   { return n.ID }
func (n MealNote) RecordDate() string { return n.Date }

func (n CareNote) RecordID() string   { return n.ID }
func (n CareNote) RecordDate() string { return n.Date }

func (n InternalNote) RecordID() string   { return n.ID }
func (n InternalNote) RecordDate() string { return n.Date }
