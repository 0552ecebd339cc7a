package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/shared/money"
	"mareblu/internal/domain/shared/stayperiod"
)

// ErrPriceNotFound marks a missing (apartment, week) price entry. Absence is
// always surfaced to the caller; a missing week never prices as free.
var ErrPriceNotFound = errors.New("pricing: no price for apartment week")

// WeeklyPrice is one admin-managed price table entry: the price of the seven
// night block starting on WeekStart (always a Saturday, YYYY-MM-DD).
type WeeklyPrice struct {
	ApartmentID catalog.ApartmentID
	WeekStart   string
	Price       money.Money
}

// PriceBook is a read-only snapshot of the price table. The pricing core is
// handed an already-resolved snapshot and never fetches mid-calculation.
type PriceBook interface {
	WeekPrice(apartmentID catalog.ApartmentID, weekKey string) (money.Money, bool)
}

// Store is the admin-managed price table. The calling layer reads a full
// snapshot out of it before invoking the pricing core.
type Store interface {
	Upsert(ctx context.Context, entries []WeeklyPrice) error
	All(ctx context.Context) ([]WeeklyPrice, error)
}

// MapPriceBook is the plain snapshot implementation the calling layer builds
// from whatever store holds the table.
type MapPriceBook map[catalog.ApartmentID]map[string]money.Money

func NewMapPriceBook(entries []WeeklyPrice) MapPriceBook {
	book := make(MapPriceBook)
	for _, e := range entries {
		weeks, ok := book[e.ApartmentID]
		if !ok {
			weeks = make(map[string]money.Money)
			book[e.ApartmentID] = weeks
		}
		weeks[e.WeekStart] = e.Price
	}
	return book
}

func (b MapPriceBook) WeekPrice(apartmentID catalog.ApartmentID, weekKey string) (money.Money, bool) {
	price, ok := b[apartmentID][weekKey]
	return price, ok
}

// ResolveStayPrice computes one apartment's base price for the stay: each
// overlapping price week contributes its weekly price prorated by the nights
// the stay spends in that week, and the sum is rounded once at the end.
func ResolveStayPrice(book PriceBook, apartmentID catalog.ApartmentID, period stayperiod.Period) (money.Money, error) {
	segments := period.WeekSegments()
	if len(segments) == 0 {
		return money.Money{}, stayperiod.ErrInvalidPeriod
	}
	total := 0.0
	currency := ""
	for _, seg := range segments {
		key := stayperiod.WeekKey(seg.WeekStart)
		price, ok := book.WeekPrice(apartmentID, key)
		if !ok {
			return money.Money{}, fmt.Errorf("%w: %s %s", ErrPriceNotFound, apartmentID, key)
		}
		total += float64(price.Amount) * float64(seg.Nights) / 7
		currency = price.Currency
	}
	return money.Money{Amount: int64(math.Round(total)), Currency: currency}, nil
}
