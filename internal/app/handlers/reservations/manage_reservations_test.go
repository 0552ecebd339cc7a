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

func seedReservation(t *testing.T, repo *memory.ReservationRepository, id string, state reservation.State) {
	t.Helper()
	period, err := stayperiod.New(
		time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), &reservation.Reservation{
		ID:         reservation.ReservationID(id),
		GuestName:  "Marco Bianchi",
		Apartments: []catalog.ApartmentID{"corallo"},
		Period:     period,
		Guests:     2,
		Quoted:     money.EUR(440),
		State:      state,
		Payment:    reservation.PaymentUnpaid,
	}))
}

func TestChangeStatusConfirmWithDeposit(t *testing.T) {
	repo := memory.NewReservationRepository()
	outbox := memory.NewOutbox()
	seedReservation(t, repo, "res-1", reservation.StatePending)

	h := &ChangeStatusHandler{
		Reservations: repo,
		Outbox:       outbox,
		Encoder:      appoutbox.JSONEventEncoder{},
	}
	result, err := h.Handle(context.Background(), ChangeStatusCommand{
		ReservationID: "res-1",
		Transition:    TransitionConfirm,
		Payment:       "deposit_paid",
	})
	require.NoError(t, err)
	assert.Equal(t, string(reservation.StateConfirmed), result.State)
	assert.Equal(t, string(reservation.PaymentDepositPaid), result.Payment)

	pending := outbox.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "reservation.confirmed", pending[0].Name)
}

func TestChangeStatusRejectsIllegalTransition(t *testing.T) {
	repo := memory.NewReservationRepository()
	seedReservation(t, repo, "res-1", reservation.StateCancelled)

	h := &ChangeStatusHandler{
		Reservations: repo,
		Outbox:       memory.NewOutbox(),
		Encoder:      appoutbox.JSONEventEncoder{},
	}
	_, err := h.Handle(context.Background(), ChangeStatusCommand{
		ReservationID: "res-1",
		Transition:    TransitionConfirm,
	})
	assert.ErrorIs(t, err, reservation.ErrInvalidState)
}

func TestChangeStatusUnknownTransition(t *testing.T) {
	repo := memory.NewReservationRepository()
	seedReservation(t, repo, "res-1", reservation.StatePending)

	h := &ChangeStatusHandler{
		Reservations: repo,
		Outbox:       memory.NewOutbox(),
		Encoder:      appoutbox.JSONEventEncoder{},
	}
	_, err := h.Handle(context.Background(), ChangeStatusCommand{
		ReservationID: "res-1",
		Transition:    "archive",
	})
	assert.ErrorIs(t, err, ErrUnknownTransition)
}

func TestListReservationsFiltersByState(t *testing.T) {
	repo := memory.NewReservationRepository()
	seedReservation(t, repo, "res-1", reservation.StatePending)
	seedReservation(t, repo, "res-2", reservation.StateConfirmed)
	seedReservation(t, repo, "res-3", reservation.StateCancelled)

	h := &ListReservationsHandler{Reservations: repo}

	all, err := h.Handle(context.Background(), ListReservationsQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Reservations, 3)

	confirmed, err := h.Handle(context.Background(), ListReservationsQuery{State: "CONFIRMED"})
	require.NoError(t, err)
	require.Len(t, confirmed.Reservations, 1)
	assert.Equal(t, "res-2", confirmed.Reservations[0].ID)
	assert.Equal(t, "2025-06-14", confirmed.Reservations[0].CheckIn)
}
