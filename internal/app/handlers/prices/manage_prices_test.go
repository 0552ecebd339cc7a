package prices

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mareblu/internal/domain/catalog"
	"mareblu/internal/infra/storage/memory"
)

func newPriceHandlers(t *testing.T) (*SetWeeklyPricesHandler, *ListWeeklyPricesHandler) {
	t.Helper()
	ctx := context.Background()

	cat := memory.NewCatalogRepository()
	for _, id := range []string{"gardenia", "azzurra"} {
		apt, err := catalog.NewApartment(catalog.CreateApartmentParams{
			ID:       catalog.ApartmentID(id),
			Name:     id,
			Beds:     2,
			Capacity: 4,
		})
		require.NoError(t, err)
		require.NoError(t, cat.Save(ctx, apt))
	}

	store := memory.NewPriceStore()
	return &SetWeeklyPricesHandler{Catalog: cat, Prices: store},
		&ListWeeklyPricesHandler{Prices: store}
}

func TestSetWeeklyPricesUpsertsAndLists(t *testing.T) {
	set, list := newPriceHandlers(t)
	ctx := context.Background()

	result, err := set.Handle(ctx, SetWeeklyPricesCommand{Entries: []WeeklyPriceInput{
		{ApartmentID: "azzurra", WeekStart: "2025-06-14", Price: 500},
		{ApartmentID: "gardenia", WeekStart: "2025-06-14", Price: 420},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stored)

	// Re-upsert overwrites rather than duplicating.
	_, err = set.Handle(ctx, SetWeeklyPricesCommand{Entries: []WeeklyPriceInput{
		{ApartmentID: "azzurra", WeekStart: "2025-06-14", Price: 550},
	}})
	require.NoError(t, err)

	all, err := list.Handle(ctx, ListWeeklyPricesQuery{})
	require.NoError(t, err)
	require.Len(t, all.Entries, 2)
	assert.Equal(t, int64(550), all.Entries[0].Price)

	filtered, err := list.Handle(ctx, ListWeeklyPricesQuery{ApartmentID: "gardenia"})
	require.NoError(t, err)
	require.Len(t, filtered.Entries, 1)
	assert.Equal(t, int64(420), filtered.Entries[0].Price)
}

func TestSetWeeklyPricesRejectsNonSaturday(t *testing.T) {
	set, _ := newPriceHandlers(t)

	// 2025-06-16 is a Monday.
	_, err := set.Handle(context.Background(), SetWeeklyPricesCommand{Entries: []WeeklyPriceInput{
		{ApartmentID: "azzurra", WeekStart: "2025-06-16", Price: 500},
	}})
	assert.ErrorIs(t, err, ErrWeekNotSaturday)
}

func TestSetWeeklyPricesRejectsNegativePrice(t *testing.T) {
	set, _ := newPriceHandlers(t)

	_, err := set.Handle(context.Background(), SetWeeklyPricesCommand{Entries: []WeeklyPriceInput{
		{ApartmentID: "azzurra", WeekStart: "2025-06-14", Price: -1},
	}})
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestSetWeeklyPricesRejectsUnknownApartment(t *testing.T) {
	set, _ := newPriceHandlers(t)

	_, err := set.Handle(context.Background(), SetWeeklyPricesCommand{Entries: []WeeklyPriceInput{
		{ApartmentID: "attico", WeekStart: "2025-06-14", Price: 500},
	}})
	assert.ErrorIs(t, err, catalog.ErrApartmentNotFound)
}
