package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "mareblu/internal/app/outbox"
	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/reservation"
	"mareblu/internal/domain/shared/money"
	"mareblu/internal/domain/shared/stayperiod"
	"mareblu/internal/infra/storage/memory"
)

func newCreateHandler(t *testing.T) (*CreateReservationHandler, *memory.ReservationRepository, *memory.Outbox) {
	t.Helper()
	ctx := context.Background()

	cat := memory.NewCatalogRepository()
	apt, err := catalog.NewApartment(catalog.CreateApartmentParams{
		ID:       "corallo",
		Name:     "Corallo",
		Beds:     2,
		Capacity: 3,
	})
	require.NoError(t, err)
	require.NoError(t, cat.Save(ctx, apt))

	reservations := memory.NewReservationRepository()
	outbox := memory.NewOutbox()
	handler := &CreateReservationHandler{
		Catalog:      cat,
		Reservations: reservations,
		Outbox:       outbox,
		Encoder:      appoutbox.JSONEventEncoder{},
		Now:          func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) },
	}
	return handler, reservations, outbox
}

func TestCreateReservationPersistsAndRecordsEvent(t *testing.T) {
	h, reservations, outbox := newCreateHandler(t)
	ctx := context.Background()

	result, err := h.Handle(ctx, CreateReservationCommand{
		CommandID:  "res-100",
		GuestName:  "Marco Bianchi",
		GuestEmail: "marco@example.com",
		Apartments: []string{"corallo"},
		CheckIn:    time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		Quoted:     440,
		Deposit:    132,
	})
	require.NoError(t, err)
	assert.Equal(t, "res-100", result.ReservationID)

	stored, err := reservations.ByID(ctx, "res-100")
	require.NoError(t, err)
	assert.Equal(t, reservation.StatePending, stored.State)
	assert.Equal(t, reservation.PaymentUnpaid, stored.Payment)
	assert.Equal(t, money.EUR(132), stored.Deposit)
	assert.Empty(t, stored.PendingEvents())

	pending := outbox.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "reservation.requested", pending[0].Name)
}

func TestCreateReservationDefaultsDeposit(t *testing.T) {
	h, reservations, _ := newCreateHandler(t)
	ctx := context.Background()

	_, err := h.Handle(ctx, CreateReservationCommand{
		CommandID:  "res-101",
		GuestName:  "Marco Bianchi",
		Apartments: []string{"corallo"},
		CheckIn:    time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		Quoted:     440,
	})
	require.NoError(t, err)

	stored, err := reservations.ByID(ctx, "res-101")
	require.NoError(t, err)
	assert.Equal(t, money.EUR(132), stored.Deposit)
}

func TestCreateReservationRejectsDateConflict(t *testing.T) {
	h, reservations, _ := newCreateHandler(t)
	ctx := context.Background()

	period, err := stayperiod.New(
		time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.NoError(t, reservations.Save(ctx, &reservation.Reservation{
		ID:         "res-existing",
		Apartments: []catalog.ApartmentID{"corallo"},
		Period:     period,
		Guests:     2,
		State:      reservation.StateConfirmed,
	}))

	_, err = h.Handle(ctx, CreateReservationCommand{
		CommandID:  "res-102",
		GuestName:  "Marco Bianchi",
		Apartments: []string{"corallo"},
		CheckIn:    time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		Quoted:     440,
	})
	assert.ErrorIs(t, err, ErrNotBookable)
}

func TestCreateReservationAllowsBackToBackTurnover(t *testing.T) {
	h, reservations, _ := newCreateHandler(t)
	ctx := context.Background()

	period, err := stayperiod.New(
		time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.NoError(t, reservations.Save(ctx, &reservation.Reservation{
		ID:         "res-before",
		Apartments: []catalog.ApartmentID{"corallo"},
		Period:     period,
		Guests:     2,
		State:      reservation.StateConfirmed,
	}))

	// Check-out day equals the next check-in day; the half-open period makes
	// same-day turnover legal.
	_, err = h.Handle(ctx, CreateReservationCommand{
		CommandID:  "res-103",
		GuestName:  "Marco Bianchi",
		Apartments: []string{"corallo"},
		CheckIn:    time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
		Guests:     2,
		Quoted:     440,
	})
	assert.NoError(t, err)
}
