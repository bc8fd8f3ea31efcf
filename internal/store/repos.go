package store

import (
	"fmt"
	"log/slog"
)

// Repos groups the collections of a nanny log on one backend.
type Repos struct {
	Locations     *Collection[SavedLocation]
	Trips         *Collection[TripEntry]
	Gigs          *Collection[Gig]
	Requests      *Collection[Request]
	ShiftLogs     *Collection[ShiftLog]
	MealNotes     *Collection[MealNote]
	CareNotes     *Collection[CareNote]
	InternalNotes *Collection[InternalNote]
}

func NewRepos(b Backend, logger *slog.Logger) *Repos {
	return &Repos{
		Locations:     NewCollection[SavedLocation](b, SlotLocations, logger),
		Trips:         NewCollection[TripEntry](b, SlotTrips, logger),
		Gigs:          NewCollection[Gig](b, SlotGigs, logger),
		Requests:      NewCollection[Request](b, SlotRequests, logger),
		ShiftLogs:     NewCollection[ShiftLog](b, SlotShiftLogs, logger),
		MealNotes:     NewCollection[MealNote](b, SlotMealNotes, logger),
		CareNotes:     NewCollection[CareNote](b, SlotCareNotes, logger),
		InternalNotes: NewCollection[InternalNote](b, SlotInternalNotes, logger),
	}
}

// ApproveRequest moves a request into the gig collection under the same id.
func (r *Repos) ApproveRequest(id string) (Gig, error) {
	reqs := r.Requests.LoadAll()
	req, ok := FindByID(reqs, id)
	if !ok {
		return Gig{}, fmt.Errorf("request %q: %w", id, ErrNotFound)
	}
	gig := req.AsGig()
	if _, err := r.Gigs.Put(gig); err != nil {
		return Gig{}, fmt.Errorf("approve request: %w", err)
	}
	if err := r.Requests.SaveAll(DeleteByID(reqs, id)); err != nil {
		return Gig{}, fmt.Errorf("approve request: %w", err)
	}
	return gig, nil
}

// DeclineRequest drops a pending request.
func (r *Repos) DeclineRequest(id string) error {
	_, err := r.Requests.Remove(id)
	return err
}
