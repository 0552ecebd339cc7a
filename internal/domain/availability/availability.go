package availability

import (
	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/shared/stayperiod"
)

// Classification is the tri-state outcome of checking one apartment against a
// candidate stay. Not being available is an expected result, not an error.
type Classification string

const (
	Available           Classification = "available"
	UnavailableCapacity Classification = "unavailable-capacity"
	UnavailableDates    Classification = "unavailable-dates"
)

func (c Classification) Bookable() bool { return c == Available }

// Reservation is the externally supplied view of an existing booking, reduced
// to what overlap checking needs. The filter never fetches these itself.
type Reservation struct {
	Apartments []catalog.ApartmentID
	Period     stayperiod.Period
}

func (r Reservation) covers(id catalog.ApartmentID) bool {
	for _, a := range r.Apartments {
		if a == id {
			return true
		}
	}
	return false
}

// Check classifies a single apartment for the candidate period. occupants is
// the portion of the group assigned to this apartment; how the caller split a
// large group across apartments is not the filter's concern, only whether the
// split fits. Reservations for other apartments are ignored, and periods that
// merely touch on a turnover day do not conflict.
func Check(apartment *catalog.Apartment, period stayperiod.Period, occupants int, existing []Reservation) Classification {
	if occupants > apartment.Capacity {
		return UnavailableCapacity
	}
	for _, res := range existing {
		if !res.covers(apartment.ID) {
			continue
		}
		if res.Period.Overlaps(period) {
			return UnavailableDates
		}
	}
	return Available
}

// CheckAll classifies every selected apartment, keyed by apartment ID.
// occupants carries the caller's per-apartment split; an apartment missing
// from the map is treated as hosting the whole group only when it is the sole
// selection, otherwise as hosting nobody.
func CheckAll(apartments []*catalog.Apartment, period stayperiod.Period, totalGuests int, occupants map[catalog.ApartmentID]int, existing []Reservation) map[catalog.ApartmentID]Classification {
	out := make(map[catalog.ApartmentID]Classification, len(apartments))
	for _, apt := range apartments {
		assigned, ok := occupants[apt.ID]
		if !ok && len(apartments) == 1 {
			assigned = totalGuests
		}
		out[apt.ID] = Check(apt, period, assigned, existing)
	}
	return out
}
