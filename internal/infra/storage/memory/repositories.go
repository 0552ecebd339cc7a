package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/pricing"
	"mareblu/internal/domain/reservation"
	"mareblu/internal/domain/shared/stayperiod"
)

// ErrConcurrentUpdate is returned when a save loses a version race.
var ErrConcurrentUpdate = errors.New("memory: concurrent update detected")

// CatalogRepository is an in-memory apartment catalog. The villa has a fixed
// handful of units, so this is also the production store unless Mongo is
// configured.
type CatalogRepository struct {
	mu    sync.RWMutex
	items map[catalog.ApartmentID]*catalog.Apartment
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		items: make(map[catalog.ApartmentID]*catalog.Apartment),
	}
}

// ByID returns an apartment or wraps catalog.ErrApartmentNotFound.
func (r *CatalogRepository) ByID(ctx context.Context, id catalog.ApartmentID) (*catalog.Apartment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	apt, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrApartmentNotFound, id)
	}
	return apt, nil
}

// All returns every apartment sorted by ID.
func (r *CatalogRepository) All(ctx context.Context) ([]*catalog.Apartment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*catalog.Apartment, 0, len(r.items))
	for _, apt := range r.items {
		out = append(out, apt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Save stores or updates an apartment entry.
func (r *CatalogRepository) Save(ctx context.Context, apartment *catalog.Apartment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[apartment.ID] = apartment
	return nil
}

// PriceStore keeps the weekly price table keyed by apartment and week start.
type PriceStore struct {
	mu    sync.RWMutex
	items map[catalog.ApartmentID]map[string]pricing.WeeklyPrice
}

func NewPriceStore() *PriceStore {
	return &PriceStore{
		items: make(map[catalog.ApartmentID]map[string]pricing.WeeklyPrice),
	}
}

// Upsert inserts or replaces the given week entries.
func (s *PriceStore) Upsert(ctx context.Context, entries []pricing.WeeklyPrice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range entries {
		weeks, ok := s.items[entry.ApartmentID]
		if !ok {
			weeks = make(map[string]pricing.WeeklyPrice)
			s.items[entry.ApartmentID] = weeks
		}
		weeks[entry.WeekStart] = entry
	}
	return nil
}

// All returns the full table sorted by apartment then week.
func (s *PriceStore) All(ctx context.Context) ([]pricing.WeeklyPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []pricing.WeeklyPrice
	for _, weeks := range s.items {
		for _, entry := range weeks {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ApartmentID != out[j].ApartmentID {
			return out[i].ApartmentID < out[j].ApartmentID
		}
		return out[i].WeekStart < out[j].WeekStart
	})
	return out, nil
}

// ReservationRepository is an in-memory reservation store guarded by a RWMutex.
type ReservationRepository struct {
	mu    sync.RWMutex
	items map[reservation.ReservationID]*reservation.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		items: make(map[reservation.ReservationID]*reservation.Reservation),
	}
}

// ByID returns a copy of the reservation or wraps reservation.ErrNotFound.
func (r *ReservationRepository) ByID(ctx context.Context, id reservation.ReservationID) (*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", reservation.ErrNotFound, id)
	}
	return cloneReservation(res), nil
}

// Save stores the reservation under the next version. A stale caller, one
// holding a version other than the stored one, gets ErrConcurrentUpdate,
// matching the Mongo repository's contract.
func (r *ReservationRepository) Save(ctx context.Context, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[res.ID]; ok && existing.Version != res.Version {
		return ErrConcurrentUpdate
	}
	stored := cloneReservation(res)
	stored.Version = res.Version + 1
	r.items[res.ID] = stored
	res.Version = stored.Version
	return nil
}

// All returns every reservation sorted by check-in date then ID.
func (r *ReservationRepository) All(ctx context.Context) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*reservation.Reservation, 0, len(r.items))
	for _, res := range r.items {
		out = append(out, cloneReservation(res))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Period.CheckIn.Equal(out[j].Period.CheckIn) {
			return out[i].Period.CheckIn.Before(out[j].Period.CheckIn)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// OverlappingPeriod returns non-cancelled reservations intersecting the period.
func (r *ReservationRepository) OverlappingPeriod(ctx context.Context, period stayperiod.Period) ([]*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*reservation.Reservation
	for _, res := range r.items {
		if !res.Blocks() {
			continue
		}
		if res.Period.Overlaps(period) {
			out = append(out, cloneReservation(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// cloneReservation detaches a stored aggregate from callers so reads never
// hand out shared mutable state. Pending events stay with the caller's copy.
func cloneReservation(res *reservation.Reservation) *reservation.Reservation {
	out := *res
	out.Apartments = append([]catalog.ApartmentID(nil), res.Apartments...)
	out.ClearEvents()
	return &out
}
