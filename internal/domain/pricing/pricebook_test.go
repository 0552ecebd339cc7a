package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mareblu/internal/domain/shared/money"
	"mareblu/internal/domain/shared/stayperiod"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func period(t *testing.T, in, out time.Time) stayperiod.Period {
	t.Helper()
	p, err := stayperiod.New(in, out)
	require.NoError(t, err)
	return p
}

func testBook() MapPriceBook {
	return NewMapPriceBook([]WeeklyPrice{
		{ApartmentID: "levante", WeekStart: "2025-06-14", Price: money.EUR(500)},
		{ApartmentID: "levante", WeekStart: "2025-06-21", Price: money.EUR(700)},
		{ApartmentID: "ponente", WeekStart: "2025-06-14", Price: money.EUR(450)},
	})
}

func TestResolveStayPriceSingleAlignedWeek(t *testing.T) {
	got, err := ResolveStayPrice(testBook(), "levante", period(t, date(2025, 6, 14), date(2025, 6, 21)))
	require.NoError(t, err)
	assert.Equal(t, money.EUR(500), got)
}

func TestResolveStayPriceProratesPartialWeek(t *testing.T) {
	// Five nights of a 500 week: round(500 × 5/7) = 357.
	got, err := ResolveStayPrice(testBook(), "levante", period(t, date(2025, 6, 14), date(2025, 6, 19)))
	require.NoError(t, err)
	assert.Equal(t, money.EUR(357), got)
}

func TestResolveStayPriceSpansWeeks(t *testing.T) {
	// Sunday to Sunday: 6 nights of the 500 week + 1 night of the 700 week.
	// round(500×6/7 + 700×1/7) = round(428.57 + 100) = 529.
	got, err := ResolveStayPrice(testBook(), "levante", period(t, date(2025, 6, 15), date(2025, 6, 22)))
	require.NoError(t, err)
	assert.Equal(t, money.EUR(529), got)
}

func TestResolveStayPriceTwoFullWeeks(t *testing.T) {
	got, err := ResolveStayPrice(testBook(), "levante", period(t, date(2025, 6, 14), date(2025, 6, 28)))
	require.NoError(t, err)
	assert.Equal(t, money.EUR(1200), got)
}

func TestResolveStayPriceMissingWeekIsObservable(t *testing.T) {
	// The 2025-06-21 week has no entry for ponente; the gap must surface,
	// never price as free.
	_, err := ResolveStayPrice(testBook(), "ponente", period(t, date(2025, 6, 14), date(2025, 6, 28)))
	assert.ErrorIs(t, err, ErrPriceNotFound)
	assert.Contains(t, err.Error(), "2025-06-21")
}

func TestResolveStayPriceUnknownApartment(t *testing.T) {
	_, err := ResolveStayPrice(testBook(), "grecale", period(t, date(2025, 6, 14), date(2025, 6, 21)))
	assert.ErrorIs(t, err, ErrPriceNotFound)
}
