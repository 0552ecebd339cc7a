package pricing

import (
	"errors"

	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/shared/money"
	"mareblu/internal/domain/stay"
)

// Fixed extra-service rates, in whole euros.
var (
	LinenPerPerson     = money.EUR(15)
	PetFeePerApartment = money.EUR(50)
	TouristTaxPerNight = money.EUR(1)
)

// ErrDistributionMismatch is returned when a multi-apartment linen
// distribution does not sum to the bed-occupying guest count. The mismatch is
// rejected, never normalized.
var ErrDistributionMismatch = errors.New("pricing: linen distribution does not match guest count")

// ExtrasBreakdown holds the four independent add-on costs. Each component is
// zero when its triggering condition is false.
type ExtrasBreakdown struct {
	Linen      money.Money
	Pets       money.Money
	Cleaning   money.Money
	TouristTax money.Money
}

func (e ExtrasBreakdown) Total() money.Money {
	total := money.EUR(0)
	for _, part := range []money.Money{e.Linen, e.Pets, e.Cleaning, e.TouristTax} {
		if part.Currency == "" {
			continue
		}
		total, _ = total.Add(part)
	}
	return total
}

// ComputeExtras derives linen, pet, cleaning and tourist tax costs from the
// request and the resolved apartments. Side-effect free; every failure is a
// returned error.
func ComputeExtras(req stay.Request, details stay.Details, apartments []*catalog.Apartment) (ExtrasBreakdown, error) {
	linen, err := linenCost(req, details, apartments)
	if err != nil {
		return ExtrasBreakdown{}, err
	}
	return ExtrasBreakdown{
		Linen:      linen,
		Pets:       petCost(req, apartments),
		Cleaning:   cleaningCost(apartments),
		TouristTax: TouristTaxPerNight.Multiply(int64(req.TaxablePersons() * details.Nights)),
	}, nil
}

func linenCost(req stay.Request, details stay.Details, apartments []*catalog.Apartment) (money.Money, error) {
	if !req.Linen {
		return money.EUR(0), nil
	}
	if len(req.LinenDistribution) > 0 {
		sum := 0
		for id, persons := range req.LinenDistribution {
			if !selected(id, apartments) {
				return money.Money{}, ErrDistributionMismatch
			}
			sum += persons
		}
		if sum != details.EffectiveGuests {
			return money.Money{}, ErrDistributionMismatch
		}
	}
	return LinenPerPerson.Multiply(int64(details.EffectiveGuests)), nil
}

func petCost(req stay.Request, apartments []*catalog.Apartment) money.Money {
	flagged := 0
	for _, apt := range apartments {
		if req.PetApartments[apt.ID] {
			flagged++
		}
	}
	hasPets := req.HasPets || flagged > 0
	if !hasPets {
		return money.EUR(0)
	}
	// A single-apartment booking pays exactly one fee no matter how the
	// per-apartment flags were filled in. With several apartments the fee
	// applies per flagged unit; a pet with no flag still lives somewhere.
	if len(apartments) == 1 || flagged == 0 {
		flagged = 1
	}
	return PetFeePerApartment.Multiply(int64(flagged))
}

func cleaningCost(apartments []*catalog.Apartment) money.Money {
	total := money.EUR(0)
	for _, apt := range apartments {
		total, _ = total.Add(apt.EffectiveCleaningFee())
	}
	return total
}

func selected(id catalog.ApartmentID, apartments []*catalog.Apartment) bool {
	for _, apt := range apartments {
		if apt.ID == id {
			return true
		}
	}
	return false
}
