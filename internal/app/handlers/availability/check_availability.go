package availability

import (
	"context"
	"time"

	"mareblu/internal/app/queries"
	domainavailability "mareblu/internal/domain/availability"
	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/reservation"
	"mareblu/internal/domain/shared/stayperiod"
)

const checkAvailabilityKey = "availability.check"

type CheckAvailabilityQuery struct {
	ApartmentID string
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityResult struct {
	ApartmentID    string                            `json:"apartment_id"`
	Classification domainavailability.Classification `json:"classification"`
	Bookable       bool                              `json:"bookable"`
}

// CheckAvailabilityHandler classifies one apartment for a candidate period
// against the stored reservations.
type CheckAvailabilityHandler struct {
	Catalog      catalog.Repository
	Reservations reservation.Repository
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (*CheckAvailabilityResult, error) {
	period, err := stayperiod.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return nil, err
	}
	apt, err := h.Catalog.ByID(ctx, catalog.ApartmentID(q.ApartmentID))
	if err != nil {
		return nil, err
	}
	stored, err := h.Reservations.OverlappingPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	existing := make([]domainavailability.Reservation, 0, len(stored))
	for _, res := range stored {
		if !res.Blocks() {
			continue
		}
		existing = append(existing, domainavailability.Reservation{Apartments: res.Apartments, Period: res.Period})
	}

	verdict := domainavailability.Check(apt, period, q.Guests, existing)
	return &CheckAvailabilityResult{
		ApartmentID:    q.ApartmentID,
		Classification: verdict,
		Bookable:       verdict.Bookable(),
	}, nil
}

var _ queries.Handler[CheckAvailabilityQuery, *CheckAvailabilityResult] = (*CheckAvailabilityHandler)(nil)
