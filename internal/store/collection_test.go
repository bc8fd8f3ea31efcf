package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/nannylog/internal/dates"
)

type failingBackend struct{}

func (failingBackend) Load(string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (failingBackend) Save(string, []byte) error  { return errors.New("disk on fire") }

func price(v float64) *float64 { return &v }

// ============================================================
// LoadAll / SaveAll
// ============================================================

func TestLoadAllMissingSlot(t *testing.T) {
	c := NewCollection[Gig](NewMemBackend(), SlotGigs, nil)
	got := c.LoadAll()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoadAllCorruptSlot(t *testing.T) {
	for _, payload := range []string{`{not json`, `{"id":"x"}`, `"str"`, `null`} {
		b := NewMemBackend()
		require.NoError(t, b.Save(SlotTrips, []byte(payload)))
		c := NewCollection[TripEntry](b, SlotTrips, nil)
		assert.Empty(t, c.LoadAll(), "payload %s", payload)
	}
}

func TestLoadAllBackendError(t *testing.T) {
	c := NewCollection[Gig](failingBackend{}, SlotGigs, nil)
	assert.Empty(t, c.LoadAll())
	assert.Error(t, c.SaveAll(nil))
}

func TestSaveAllNilWritesEmptyArray(t *testing.T) {
	b := NewMemBackend()
	c := NewCollection[Gig](b, SlotGigs, nil)
	require.NoError(t, c.SaveAll(nil))

	data, _ := b.Load(SlotGigs)
	assert.Equal(t, `[]`, string(data))
}

func TestSaveLoadIdempotent(t *testing.T) {
	s := newTestStore(t)
	repos := NewRepos(s, nil)

	trips := []TripEntry{
		{ID: "b", Date: "2024-03-05", LocationID: "l1", LocationName: "Park", RoundTripMiles: 4.5, ParkingPrice: price(2)},
		{ID: "a", Date: "2024-03-04", LocationID: "l2", LocationName: "Zoo", RoundTripMiles: 12, Notes: "lions", TicketsPrice: price(0)},
	}
	require.NoError(t, repos.Trips.SaveAll(trips))
	before, err := s.Load(SlotTrips)
	require.NoError(t, err)

	require.NoError(t, repos.Trips.SaveAll(repos.Trips.LoadAll()))
	after, err := s.Load(SlotTrips)
	require.NoError(t, err)

	assert.Equal(t, string(before), string(after))
	assert.Equal(t, trips, repos.Trips.LoadAll())
}

func TestMealNoteRoundTripKeepsGroceryOrder(t *testing.T) {
	c := NewCollection[MealNote](NewMemBackend(), SlotMealNotes, nil)
	note := MealNote{ID: "m1", Date: "2024-03-06", Notes: "toast", GroceryList: []string{"milk", "Eggs", "eggs"}}
	_, err := c.Put(note)
	require.NoError(t, err)

	got := c.LoadAll()
	require.Len(t, got, 1)
	assert.Equal(t, []string{"milk", "Eggs", "eggs"}, got[0].GroceryList)
}

func TestReadsOriginalSlotFormat(t *testing.T) {
	b := NewMemBackend()
	raw := `[{"id":"1700000000000","date":"2024-03-06","startTime":"805","endTime":"5","familyName":"Lee"}]`
	require.NoError(t, b.Save(SlotShiftLogs, []byte(raw)))

	logs := NewRepos(b, nil).ShiftLogs.LoadAll()
	require.Len(t, logs, 1)
	assert.Equal(t, Start805, logs[0].StartTime)
	assert.Equal(t, End500, logs[0].EndTime)
	assert.Equal(t, "Lee", logs[0].FamilyName)
}

// ============================================================
// Upsert / Delete
// ============================================================

func TestUpsertReplacesAndMovesToEnd(t *testing.T) {
	items := []Gig{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := Upsert(items, Gig{ID: "a", FamilyName: "new"})

	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
	assert.Equal(t, "new", got[2].FamilyName)
	// input untouched
	assert.Equal(t, []string{"a", "b", "c"}, ids(items))
}

func TestUpsertSequenceProperty(t *testing.T) {
	var items []InternalNote
	latest := map[string]string{}
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("id-%d", (i*7)%11)
		content := fmt.Sprintf("v%d", i)
		items = Upsert(items, InternalNote{ID: id, Content: content})
		latest[id] = content
	}

	seen := map[string]bool{}
	for _, it := range items {
		require.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
		assert.Equal(t, latest[it.ID], it.Content)
	}
	assert.Len(t, items, len(latest))
	// the last write is always last
	assert.Equal(t, "v49", items[len(items)-1].Content)
}

func TestDeleteByID(t *testing.T) {
	items := []SavedLocation{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	assert.Equal(t, []string{"a", "c"}, ids(DeleteByID(items, "b")))
	assert.Equal(t, []string{"a", "b", "c"}, ids(DeleteByID(items, "zzz")))
}

func TestCollectionPutAndRemove(t *testing.T) {
	c := NewCollection[SavedLocation](newTestStore(t), SlotLocations, nil)

	_, err := c.Put(SavedLocation{ID: "a", Name: "Park"})
	require.NoError(t, err)
	_, err = c.Put(SavedLocation{ID: "b", Name: "Zoo"})
	require.NoError(t, err)
	items, err := c.Put(SavedLocation{ID: "a", Name: "Big Park"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(items))

	items, err = c.Remove("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(c.LoadAll()))
	assert.Equal(t, ids(items), ids(c.LoadAll()))

	_, err = c.Remove("b")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ============================================================
// Date lookups
// ============================================================

// Several notes may share a date; the one written last wins the lookup.
func TestFindLatestByDatePermissivePolicy(t *testing.T) {
	var notes []CareNote
	notes = Upsert(notes, CareNote{ID: "1", Date: "2024-03-06", Content: "first"})
	notes = Upsert(notes, CareNote{ID: "2", Date: "2024-03-06", Content: "second"})
	notes = Upsert(notes, CareNote{ID: "3", Date: "2024-03-07", Content: "other day"})

	got, ok := FindLatestByDate(notes, "2024-03-06")
	require.True(t, ok)
	assert.Equal(t, "second", got.Content)
	assert.Len(t, notes, 3, "both notes for the date are kept")

	// editing the older note makes it the latest
	notes = Upsert(notes, CareNote{ID: "1", Date: "2024-03-06", Content: "first, edited"})
	got, _ = FindLatestByDate(notes, "2024-03-06")
	assert.Equal(t, "first, edited", got.Content)

	_, ok = FindLatestByDate(notes, "2024-01-01")
	assert.False(t, ok)
}

func TestOnDateAndInRange(t *testing.T) {
	trips := []TripEntry{
		{ID: "1", Date: "2024-03-03"},
		{ID: "2", Date: "2024-03-04"},
		{ID: "3", Date: "2024-03-10"},
		{ID: "4", Date: "2024-03-11"},
		{ID: "5", Date: "2024-03-04"},
	}
	assert.Equal(t, []string{"2", "5"}, ids(OnDate(trips, "2024-03-04")))
	assert.Equal(t, []string{"2", "3", "5"}, ids(InRange(trips, dates.WeekRange("2024-03-06"))))
}

func TestSortByDateStable(t *testing.T) {
	logs := []ShiftLog{
		{ID: "a", Date: "2024-03-02"},
		{ID: "b", Date: "2024-03-05"},
		{ID: "c", Date: "2024-03-02"},
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids(SortByDate(logs, false)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(SortByDate(logs, true)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(logs))
}

func ids[T Record](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.RecordID())
	}
	return out
}
