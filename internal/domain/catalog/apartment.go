package catalog

import (
	"context"
	"errors"
	"strings"

	"mareblu/internal/domain/shared/money"
)

var (
	ErrApartmentNotFound = errors.New("catalog: apartment not found")
	ErrIDRequired        = errors.New("catalog: id is required")
	ErrNameRequired      = errors.New("catalog: name is required")
	ErrCapacityInvalid   = errors.New("catalog: capacity must be at least 1")
	ErrBedsInvalid       = errors.New("catalog: beds must be at least 1")
	ErrFloorInvalid      = errors.New("catalog: floor must be >= 0")
)

type ApartmentID string

// DefaultCleaningFee applies when an apartment has no configured fee.
var DefaultCleaningFee = money.EUR(50)

// Amenities are the few flags the site actually advertises per apartment.
type Amenities struct {
	AirConditioning bool
	Terrace         bool
	Veranda         bool
	SeaView         bool
}

// Apartment is immutable reference data describing one rentable unit of the
// villa. It is loaded from the static catalog and never mutated by pricing.
type Apartment struct {
	ID          ApartmentID
	Name        string
	Beds        int
	Bedrooms    int
	Floor       int
	Capacity    int
	Amenities   Amenities
	CleaningFee *money.Money
}

// EffectiveCleaningFee returns the configured fee or the villa-wide default.
func (a Apartment) EffectiveCleaningFee() money.Money {
	if a.CleaningFee != nil {
		return *a.CleaningFee
	}
	return DefaultCleaningFee
}

type CreateApartmentParams struct {
	ID          ApartmentID
	Name        string
	Beds        int
	Bedrooms    int
	Floor       int
	Capacity    int
	Amenities   Amenities
	CleaningFee *money.Money
}

func NewApartment(params CreateApartmentParams) (*Apartment, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	if params.Capacity < 1 {
		return nil, ErrCapacityInvalid
	}
	if params.Beds < 1 {
		return nil, ErrBedsInvalid
	}
	if params.Floor < 0 {
		return nil, ErrFloorInvalid
	}
	return &Apartment{
		ID:          params.ID,
		Name:        params.Name,
		Beds:        params.Beds,
		Bedrooms:    params.Bedrooms,
		Floor:       params.Floor,
		Capacity:    params.Capacity,
		Amenities:   params.Amenities,
		CleaningFee: params.CleaningFee,
	}, nil
}

type Repository interface {
	ByID(ctx context.Context, id ApartmentID) (*Apartment, error)
	All(ctx context.Context) ([]*Apartment, error)
	Save(ctx context.Context, apartment *Apartment) error
}

// TotalCapacity sums the capacity of the given apartments; the occupancy
// discount is computed against this.
func TotalCapacity(apartments []*Apartment) int {
	total := 0
	for _, a := range apartments {
		total += a.Capacity
	}
	return total
}
