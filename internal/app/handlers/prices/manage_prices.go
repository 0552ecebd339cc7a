package prices

import (
	"context"
	"errors"
	"sort"
	"time"

	"mareblu/internal/app/commands"
	"mareblu/internal/app/queries"
	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/pricing"
	"mareblu/internal/domain/shared/money"
	"mareblu/internal/domain/shared/stayperiod"
)

const (
	setWeeklyPricesKey  = "prices.set"
	listWeeklyPricesKey = "prices.list"
)

var (
	ErrWeekNotSaturday = errors.New("prices: week start must be a Saturday")
	ErrNegativePrice   = errors.New("prices: price must be non-negative")
)

type WeeklyPriceInput struct {
	ApartmentID string `json:"apartment_id"`
	WeekStart   string `json:"week_start"`
	Price       int64  `json:"price"`
}

type SetWeeklyPricesCommand struct {
	Entries []WeeklyPriceInput
}

func (c SetWeeklyPricesCommand) Key() string { return setWeeklyPricesKey }

type SetWeeklyPricesResult struct {
	Stored int `json:"stored"`
}

// SetWeeklyPricesHandler validates and upserts price table rows. Weeks are
// keyed by their Saturday start date; anything else is an admin mistake.
type SetWeeklyPricesHandler struct {
	Catalog catalog.Repository
	Prices  pricing.Store
}

func (h *SetWeeklyPricesHandler) Handle(ctx context.Context, cmd SetWeeklyPricesCommand) (*SetWeeklyPricesResult, error) {
	entries := make([]pricing.WeeklyPrice, 0, len(cmd.Entries))
	for _, in := range cmd.Entries {
		day, err := time.Parse("2006-01-02", in.WeekStart)
		if err != nil {
			return nil, err
		}
		if day.Weekday() != time.Saturday {
			return nil, ErrWeekNotSaturday
		}
		if in.Price < 0 {
			return nil, ErrNegativePrice
		}
		if _, err := h.Catalog.ByID(ctx, catalog.ApartmentID(in.ApartmentID)); err != nil {
			return nil, err
		}
		entries = append(entries, pricing.WeeklyPrice{
			ApartmentID: catalog.ApartmentID(in.ApartmentID),
			WeekStart:   stayperiod.WeekKey(day),
			Price:       money.EUR(in.Price),
		})
	}
	if err := h.Prices.Upsert(ctx, entries); err != nil {
		return nil, err
	}
	return &SetWeeklyPricesResult{Stored: len(entries)}, nil
}

type ListWeeklyPricesQuery struct {
	ApartmentID string
}

func (q ListWeeklyPricesQuery) Key() string { return listWeeklyPricesKey }

type ListWeeklyPricesResult struct {
	Entries []WeeklyPriceInput `json:"entries"`
}

type ListWeeklyPricesHandler struct {
	Prices pricing.Store
}

func (h *ListWeeklyPricesHandler) Handle(ctx context.Context, q ListWeeklyPricesQuery) (*ListWeeklyPricesResult, error) {
	all, err := h.Prices.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WeeklyPriceInput, 0, len(all))
	for _, entry := range all {
		if q.ApartmentID != "" && string(entry.ApartmentID) != q.ApartmentID {
			continue
		}
		out = append(out, WeeklyPriceInput{
			ApartmentID: string(entry.ApartmentID),
			WeekStart:   entry.WeekStart,
			Price:       entry.Price.Amount,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ApartmentID != out[j].ApartmentID {
			return out[i].ApartmentID < out[j].ApartmentID
		}
		return out[i].WeekStart < out[j].WeekStart
	})
	return &ListWeeklyPricesResult{Entries: out}, nil
}

var (
	_ commands.Handler[SetWeeklyPricesCommand, *SetWeeklyPricesResult] = (*SetWeeklyPricesHandler)(nil)
	_ queries.Handler[ListWeeklyPricesQuery, *ListWeeklyPricesResult]  = (*ListWeeklyPricesHandler)(nil)
)
