package reservations

import (
	"context"
	"errors"
	"time"

	"mareblu/internal/app/commands"
	"mareblu/internal/app/outbox"
	"mareblu/internal/domain/availability"
	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/pricing"
	"mareblu/internal/domain/reservation"
	"mareblu/internal/domain/shared/money"
	"mareblu/internal/domain/shared/stayperiod"
)

const createReservationKey = "reservations.create"

// ErrNotBookable rejects a reservation whose apartments fail the availability
// check at write time.
var ErrNotBookable = errors.New("reservations: apartment not bookable for the requested period")

type CreateReservationCommand struct {
	CommandID  string
	GuestName  string
	GuestEmail string
	GuestPhone string
	Apartments []string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	Quoted     int64
	Deposit    int64
	Notes      string
}

func (c CreateReservationCommand) Key() string { return createReservationKey }

type CreateReservationResult struct {
	ReservationID string `json:"reservation_id"`
}

// CreateReservationHandler re-checks availability against the current
// reservation list before persisting; the quote form's earlier check may be
// stale by the time the admin confirms.
type CreateReservationHandler struct {
	Catalog      catalog.Repository
	Reservations reservation.Repository
	Outbox       outbox.Outbox
	Encoder      outbox.EventEncoder
	Now          func() time.Time
}

func (h *CreateReservationHandler) Handle(ctx context.Context, cmd CreateReservationCommand) (*CreateReservationResult, error) {
	period, err := stayperiod.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	apartments := make([]catalog.ApartmentID, 0, len(cmd.Apartments))
	resolved := make([]*catalog.Apartment, 0, len(cmd.Apartments))
	for _, id := range cmd.Apartments {
		apt, err := h.Catalog.ByID(ctx, catalog.ApartmentID(id))
		if err != nil {
			return nil, err
		}
		apartments = append(apartments, apt.ID)
		resolved = append(resolved, apt)
	}

	stored, err := h.Reservations.OverlappingPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	existing := make([]availability.Reservation, 0, len(stored))
	for _, res := range stored {
		if !res.Blocks() {
			continue
		}
		existing = append(existing, availability.Reservation{Apartments: res.Apartments, Period: res.Period})
	}
	for _, apt := range resolved {
		// Capacity was the quote form's concern; here only date conflicts
		// block the write.
		if verdict := availability.Check(apt, period, 0, existing); verdict == availability.UnavailableDates {
			return nil, ErrNotBookable
		}
	}

	now := h.now()
	res, err := reservation.New(reservation.CreateParams{
		ID:         reservation.ReservationID(cmd.CommandID),
		GuestName:  cmd.GuestName,
		GuestEmail: cmd.GuestEmail,
		GuestPhone: cmd.GuestPhone,
		Apartments: apartments,
		Period:     period,
		Guests:     cmd.Guests,
		Quoted:     money.EUR(cmd.Quoted),
		Deposit:    depositOrDefault(cmd),
		Notes:      cmd.Notes,
		Now:        now,
	})
	if err != nil {
		return nil, err
	}
	if err := h.Reservations.Save(ctx, res); err != nil {
		return nil, err
	}

	pending := res.PendingEvents()
	res.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	return &CreateReservationResult{ReservationID: string(res.ID)}, nil
}

func depositOrDefault(cmd CreateReservationCommand) money.Money {
	if cmd.Deposit > 0 {
		return money.EUR(cmd.Deposit)
	}
	return money.EUR(cmd.Quoted).Percent(pricing.DepositPercent)
}

func (h *CreateReservationHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateReservationCommand, *CreateReservationResult] = (*CreateReservationHandler)(nil)
