package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sadopc/nannylog/internal/dates"
)

// Collection is the repository for one record type, persisted as a JSON
// array in a single slot. Every save overwrites the whole slot.
type Collection[T Record] struct {
	backend Backend
	slot    string
	log     *slog.Logger
}

func NewCollection[T Record](b Backend, slot string, logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T]{backend: b, slot: slot, log: logger.With("slot", slot)}
}

func (c *Collection[T]) Slot() string { return c.slot }

// LoadAll returns the persisted records. A missing, unreadable or corrupt
// slot yields an empty collection.
func (c *Collection[T]) LoadAll() []T {
	data, err := c.backend.Load(c.slot)
	if err != nil {
		c.log.Warn("load failed, treating slot as empty", "error", err)
		return []T{}
	}
	if len(data) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.log.Warn("corrupt slot, treating as empty", "error", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// SaveAll persists items, replacing whatever the slot held.
func (c *Collection[T]) SaveAll(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.slot, err)
	}
	if err := c.backend.Save(c.slot, data); err != nil {
		return err
	}
	c.log.Debug("slot saved", "count", len(items))
	return nil
}

// Put upserts rec into the persisted collection and returns the new state.
func (c *Collection[T]) Put(rec T) ([]T, error) {
	items := Upsert(c.LoadAll(), rec)
	if err := c.SaveAll(items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove deletes the record with id from the persisted collection.
func (c *Collection[T]) Remove(id string) ([]T, error) {
	items := c.LoadAll()
	if _, ok := FindByID(items, id); !ok {
		return items, fmt.Errorf("%s %q: %w", c.slot, id, ErrNotFound)
	}
	items = DeleteByID(items, id)
	if err := c.SaveAll(items); err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert returns items without any record sharing rec's id, with rec
// appended at the end. The input slice is not modified.
func Upsert[T Record](items []T, rec T) []T {
	out := make([]T, 0, len(items)+1)
	for _, it := range items {
		if it.RecordID() != rec.RecordID() {
			out = append(out, it)
		}
	}
	return append(out, rec)
}

// DeleteByID returns items without the record carrying id.
func DeleteByID[T Record](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.RecordID() != id {
			out = append(out, it)
		}
	}
	return out
}

// FindByID returns the record carrying id.
func FindByID[T Record](items []T, id string) (T, bool) {
	for _, it := range items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// FindLatestByDate returns the last record for date. Upsert appends, so the
// last match is the most recently written one.
func FindLatestByDate[T Dated](items []T, date string) (T, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].RecordDate() == date {
			return items[i], true
		}
	}
	var zero T
	return zero, false
}

// OnDate returns the records dated exactly date, in collection order.
func OnDate[T Dated](items []T, date string) []T {
	var out []T
	for _, it := range items {
		if it.RecordDate() == date {
			out = append(out, it)
		}
	}
	return out
}

// InRange returns the records whose date falls inside r.
func InRange[T Dated](items []T, r dates.Range) []T {
	var out []T
	for _, it := range items {
		if r.Contains(it.RecordDate()) {
			out = append(out, it)
		}
	}
	return out
}

// SortByDate returns a copy of items ordered by date; equal dates keep
// collection order.
func SortByDate[T Dated](items []T, descending bool) []T {
	out := append([]T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].RecordDate() > out[j].RecordDate()
		}
		return out[i].RecordDate() < out[j].RecordDate()
	})
	return out
}
