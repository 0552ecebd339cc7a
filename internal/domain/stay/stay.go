package stay

import (
	"errors"
	"time"

	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/shared/stayperiod"
)

// The villa only rents in blocks of five nights to four weeks, with arrivals
// and departures on the weekend turnover days.
const (
	MinNights = 5
	MaxNights = 28
)

var (
	ErrTooShort          = errors.New("stay: shorter than the five night minimum")
	ErrTooLong           = errors.New("stay: longer than the four week maximum")
	ErrWeekdayNotAllowed = errors.New("stay: check-in and check-out must fall on Saturday, Sunday or Monday")
	ErrNoAdults          = errors.New("stay: at least one adult is required")
)

// Child describes one travelling child as the quote form collects it. A child
// sleeping with its parents or in a crib occupies no bed and is excluded from
// bed and linen counts.
type Child struct {
	Under12           bool
	SleepsWithParents bool
	SleepsInCrib      bool
}

// NeedsBed reports whether the child occupies its own sleeping place.
func (c Child) NeedsBed() bool {
	return !c.SleepsWithParents && !c.SleepsInCrib
}

// Request is the pricing input assembled by the quote form.
type Request struct {
	CheckIn    time.Time
	CheckOut   time.Time
	Adults     int
	Children   []Child
	Apartments []catalog.ApartmentID
	// Linen asks for bed linen at the per-person rate.
	Linen bool
	// LinenDistribution optionally splits the bed-occupying guests across
	// apartments for linen billing. It must sum exactly to the bed count.
	LinenDistribution map[catalog.ApartmentID]int
	// PetApartments marks which apartments host a pet. For a single-apartment
	// stay a plain HasPets flag is enough.
	HasPets       bool
	PetApartments map[catalog.ApartmentID]bool
}

// Details is the normalized view of a stay every later pipeline stage works
// from.
type Details struct {
	Period              stayperiod.Period
	Nights              int
	IndependentChildren int
	// EffectiveGuests is the bed-occupying guest count: adults plus children
	// that sleep in their own bed.
	EffectiveGuests int
}

// Normalize validates the stay dates and derives the guest counts. Every
// violation is reported as a returned error, never corrected silently.
func (r Request) Normalize() (Details, error) {
	period, err := stayperiod.New(r.CheckIn, r.CheckOut)
	if err != nil {
		return Details{}, err
	}
	nights := period.Nights()
	if nights < MinNights {
		return Details{}, ErrTooShort
	}
	if nights > MaxNights {
		return Details{}, ErrTooLong
	}
	if !turnoverWeekday(period.CheckIn.Weekday()) || !turnoverWeekday(period.CheckOut.Weekday()) {
		return Details{}, ErrWeekdayNotAllowed
	}
	if r.Adults < 1 {
		return Details{}, ErrNoAdults
	}

	independent := 0
	for _, child := range r.Children {
		if child.NeedsBed() {
			independent++
		}
	}
	return Details{
		Period:              period,
		Nights:              nights,
		IndependentChildren: independent,
		EffectiveGuests:     r.Adults + independent,
	}, nil
}

// TaxablePersons counts the guests subject to tourist tax: adults plus
// children not flagged under twelve.
func (r Request) TaxablePersons() int {
	count := r.Adults
	for _, child := range r.Children {
		if !child.Under12 {
			count++
		}
	}
	return count
}

func turnoverWeekday(d time.Weekday) bool {
	switch d {
	case time.Saturday, time.Sunday, time.Monday:
		return true
	default:
		return false
	}
}
