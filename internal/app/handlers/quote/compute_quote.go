package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mareblu/internal/app/commands"
	"mareblu/internal/app/policies"
	"mareblu/internal/domain/availability"
	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/pricing"
	"mareblu/internal/domain/reservation"
	"mareblu/internal/domain/stay"
)

const computeQuoteKey = "quote.compute"

var ErrNoApartmentsSelected = errors.New("quote: at least one apartment must be selected")

type ChildInput struct {
	Under12           bool `json:"under_12"`
	SleepsWithParents bool `json:"sleeps_with_parents"`
	SleepsInCrib      bool `json:"sleeps_in_crib"`
}

type ComputeQuoteCommand struct {
	CheckIn           time.Time
	CheckOut          time.Time
	Adults            int
	Children          []ChildInput
	Apartments        []string
	Occupants         map[string]int
	Linen             bool
	LinenDistribution map[string]int
	HasPets           bool
	PetApartments     map[string]bool
	// GuestEmail, when set, asks for the rendered quote to be mailed out.
	GuestEmail string
	GuestName  string
}

func (c ComputeQuoteCommand) Key() string { return computeQuoteKey }

// ComputeQuoteResult carries either a quote or the availability verdict that
// prevented one. Not being available is a result, not an error.
type ComputeQuoteResult struct {
	Availability map[string]availability.Classification `json:"availability"`
	Bookable     bool                                   `json:"bookable"`
	Quote        *pricing.Quote                         `json:"quote,omitempty"`
	Message      string                                 `json:"message,omitempty"`
	EmailSent    bool                                   `json:"email_sent"`
}

// ComputeQuoteHandler runs the whole pricing pipeline: normalize, filter
// availability, resolve weekly prices, apply the occupancy discount, add
// extras, aggregate. All lookups happen against snapshots loaded up front;
// the calculation itself never re-fetches.
type ComputeQuoteHandler struct {
	Catalog      catalog.Repository
	Prices       pricing.Store
	Reservations reservation.Repository
	Mailer       policies.Mailer
	Logger       *slog.Logger
}

func (h *ComputeQuoteHandler) Handle(ctx context.Context, cmd ComputeQuoteCommand) (*ComputeQuoteResult, error) {
	if len(cmd.Apartments) == 0 {
		return nil, ErrNoApartmentsSelected
	}

	req := buildRequest(cmd)
	details, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	apartments := make([]*catalog.Apartment, 0, len(req.Apartments))
	for _, id := range req.Apartments {
		apt, err := h.Catalog.ByID(ctx, id)
		if err != nil {
			return nil, err
		}
		apartments = append(apartments, apt)
	}

	existing, err := h.reservationView(ctx, details)
	if err != nil {
		return nil, err
	}

	occupants := make(map[catalog.ApartmentID]int, len(cmd.Occupants))
	for id, n := range cmd.Occupants {
		occupants[catalog.ApartmentID(id)] = n
	}
	verdicts := availability.CheckAll(apartments, details.Period, details.EffectiveGuests, occupants, existing)

	result := &ComputeQuoteResult{Availability: make(map[string]availability.Classification, len(verdicts))}
	bookable := true
	for id, verdict := range verdicts {
		result.Availability[string(id)] = verdict
		if !verdict.Bookable() {
			bookable = false
		}
	}
	result.Bookable = bookable
	if !bookable {
		return result, nil
	}

	entries, err := h.Prices.All(ctx)
	if err != nil {
		return nil, err
	}
	book := pricing.NewMapPriceBook(entries)

	// Occupancy and tier are group-wide; the discount amount applies to each
	// apartment's own base price.
	totalCapacity := catalog.TotalCapacity(apartments)
	occupancy := pricing.OccupancyPercent(details.EffectiveGuests, totalCapacity)
	groupDiscount := pricing.OccupancyDiscount{
		OccupancyPercent: occupancy,
		DiscountPercent:  pricing.DiscountPercentFor(occupancy),
	}
	lines := make([]pricing.QuoteLine, 0, len(apartments))
	for _, apt := range apartments {
		base, err := pricing.ResolveStayPrice(book, apt.ID, details.Period)
		if err != nil {
			return nil, err
		}
		d := pricing.ComputeDiscount(details.EffectiveGuests, totalCapacity, base)
		lines = append(lines, pricing.QuoteLine{
			ApartmentID: apt.ID,
			Name:        apt.Name,
			Base:        base,
			Discount:    d.Amount,
			Discounted:  d.DiscountedPrice,
		})
	}

	extras, err := pricing.ComputeExtras(req, details, apartments)
	if err != nil {
		return nil, err
	}

	quote := pricing.AggregateQuote(details.Period, req.Adults, len(req.Children), groupDiscount, lines, extras)
	result.Quote = &quote
	result.Message = quote.Render()

	if h.Mailer != nil && cmd.GuestEmail != "" {
		email := policies.QuoteEmail{
			To:        cmd.GuestEmail,
			GuestName: cmd.GuestName,
			Subject:   fmt.Sprintf("Villa MareBlu quote %s – %s", details.Period.CheckIn.Format("2006-01-02"), details.Period.CheckOut.Format("2006-01-02")),
			Body:      result.Message,
		}
		// Delivery failure must not sink the quote itself.
		if err := h.Mailer.SendQuoteEmail(ctx, email); err != nil {
			h.logger().WarnContext(ctx, "quote email not delivered", "error", err, "to", cmd.GuestEmail)
		} else {
			result.EmailSent = true
		}
	}
	return result, nil
}

func (h *ComputeQuoteHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *ComputeQuoteHandler) reservationView(ctx context.Context, details stay.Details) ([]availability.Reservation, error) {
	stored, err := h.Reservations.OverlappingPeriod(ctx, details.Period)
	if err != nil {
		return nil, err
	}
	view := make([]availability.Reservation, 0, len(stored))
	for _, res := range stored {
		if !res.Blocks() {
			continue
		}
		view = append(view, availability.Reservation{Apartments: res.Apartments, Period: res.Period})
	}
	return view, nil
}

func buildRequest(cmd ComputeQuoteCommand) stay.Request {
	children := make([]stay.Child, 0, len(cmd.Children))
	for _, c := range cmd.Children {
		children = append(children, stay.Child{
			Under12:           c.Under12,
			SleepsWithParents: c.SleepsWithParents,
			SleepsInCrib:      c.SleepsInCrib,
		})
	}
	apartments := make([]catalog.ApartmentID, 0, len(cmd.Apartments))
	for _, id := range cmd.Apartments {
		apartments = append(apartments, catalog.ApartmentID(id))
	}
	linenDist := make(map[catalog.ApartmentID]int, len(cmd.LinenDistribution))
	for id, n := range cmd.LinenDistribution {
		linenDist[catalog.ApartmentID(id)] = n
	}
	pets := make(map[catalog.ApartmentID]bool, len(cmd.PetApartments))
	for id, flag := range cmd.PetApartments {
		pets[catalog.ApartmentID(id)] = flag
	}
	return stay.Request{
		CheckIn:           cmd.CheckIn,
		CheckOut:          cmd.CheckOut,
		Adults:            cmd.Adults,
		Children:          children,
		Apartments:        apartments,
		Linen:             cmd.Linen,
		LinenDistribution: linenDist,
		HasPets:           cmd.HasPets,
		PetApartments:     pets,
	}
}

var _ commands.Handler[ComputeQuoteCommand, *ComputeQuoteResult] = (*ComputeQuoteHandler)(nil)
