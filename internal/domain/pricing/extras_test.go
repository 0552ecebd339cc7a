package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/shared/money"
	"mareblu/internal/domain/stay"
)

func apartment(id string, capacity int, fee *money.Money) *catalog.Apartment {
	apt, err := catalog.NewApartment(catalog.CreateApartmentParams{
		ID:          catalog.ApartmentID(id),
		Name:        "Apt " + id,
		Beds:        capacity,
		Capacity:    capacity,
		CleaningFee: fee,
	})
	if err != nil {
		panic(err)
	}
	return apt
}

func weekRequest() stay.Request {
	return stay.Request{
		CheckIn:    time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
		Adults:     4,
		Apartments: []catalog.ApartmentID{"levante"},
	}
}

func normalize(t *testing.T, req stay.Request) stay.Details {
	t.Helper()
	details, err := req.Normalize()
	require.NoError(t, err)
	return details
}

func TestLinenCostCountsBedOccupants(t *testing.T) {
	req := weekRequest()
	req.Linen = true
	req.Children = []stay.Child{{SleepsWithParents: true}, {}}
	apts := []*catalog.Apartment{apartment("levante", 6, nil)}

	extras, err := ComputeExtras(req, normalize(t, req), apts)
	require.NoError(t, err)
	// 4 adults + 1 independent child = 5 bed occupants × 15.
	assert.Equal(t, money.EUR(75), extras.Linen)
}

func TestLinenNotRequested(t *testing.T) {
	req := weekRequest()
	apts := []*catalog.Apartment{apartment("levante", 6, nil)}

	extras, err := ComputeExtras(req, normalize(t, req), apts)
	require.NoError(t, err)
	assert.True(t, extras.Linen.IsZero())
}

func TestLinenDistributionMustSumExactly(t *testing.T) {
	req := weekRequest()
	req.Linen = true
	req.Apartments = []catalog.ApartmentID{"levante", "ponente"}
	apts := []*catalog.Apartment{apartment("levante", 4, nil), apartment("ponente", 4, nil)}

	req.LinenDistribution = map[catalog.ApartmentID]int{"levante": 2, "ponente": 1}
	_, err := ComputeExtras(req, normalize(t, req), apts)
	assert.ErrorIs(t, err, ErrDistributionMismatch)

	req.LinenDistribution = map[catalog.ApartmentID]int{"levante": 2, "ponente": 2}
	extras, err := ComputeExtras(req, normalize(t, req), apts)
	require.NoError(t, err)
	assert.Equal(t, money.EUR(60), extras.Linen)
}

func TestLinenDistributionRejectsUnknownApartment(t *testing.T) {
	req := weekRequest()
	req.Linen = true
	req.LinenDistribution = map[catalog.ApartmentID]int{"grecale": 4}
	apts := []*catalog.Apartment{apartment("levante", 6, nil)}

	_, err := ComputeExtras(req, normalize(t, req), apts)
	assert.ErrorIs(t, err, ErrDistributionMismatch)
}

func TestPetCostSingleApartmentSingleFee(t *testing.T) {
	req := weekRequest()
	req.HasPets = true
	// Flags set or not, one apartment means exactly one fee.
	req.PetApartments = map[catalog.ApartmentID]bool{"levante": true}
	apts := []*catalog.Apartment{apartment("levante", 6, nil)}

	extras, err := ComputeExtras(req, normalize(t, req), apts)
	require.NoError(t, err)
	assert.Equal(t, money.EUR(50), extras.Pets)
}

func TestPetCostPerFlaggedApartment(t *testing.T) {
	req := weekRequest()
	req.Apartments = []catalog.ApartmentID{"levante", "ponente"}
	req.PetApartments = map[catalog.ApartmentID]bool{"levante": true, "ponente": true}
	apts := []*catalog.Apartment{apartment("levante", 4, nil), apartment("ponente", 4, nil)}

	extras, err := ComputeExtras(req, normalize(t, req), apts)
	require.NoError(t, err)
	assert.Equal(t, money.EUR(100), extras.Pets)
}

func TestPetCostZeroWithoutPets(t *testing.T) {
	req := weekRequest()
	apts := []*catalog.Apartment{apartment("levante", 6, nil)}

	extras, err := ComputeExtras(req, normalize(t, req), apts)
	require.NoError(t, err)
	assert.True(t, extras.Pets.IsZero())
}

func TestCleaningFeeFallsBackToDefault(t *testing.T) {
	custom := money.EUR(80)
	req := weekRequest()
	req.Apartments = []catalog.ApartmentID{"levante", "ponente"}
	apts := []*catalog.Apartment{apartment("levante", 4, &custom), apartment("ponente", 4, nil)}

	extras, err := ComputeExtras(req, normalize(t, req), apts)
	require.NoError(t, err)
	assert.Equal(t, money.EUR(130), extras.Cleaning)
}

func TestTouristTaxExemptsUnderTwelve(t *testing.T) {
	req := weekRequest()
	req.Adults = 2
	req.Children = []stay.Child{{Under12: true}, {Under12: false}}
	apts := []*catalog.Apartment{apartment("levante", 6, nil)}

	extras, err := ComputeExtras(req, normalize(t, req), apts)
	require.NoError(t, err)
	// 3 taxable persons × 7 nights × 1.
	assert.Equal(t, money.EUR(21), extras.TouristTax)
}

func TestExtrasTotal(t *testing.T) {
	e := ExtrasBreakdown{
		Linen:      money.EUR(75),
		Cleaning:   money.EUR(50),
		TouristTax: money.EUR(28),
	}
	assert.Equal(t, money.EUR(153), e.Total())
}
