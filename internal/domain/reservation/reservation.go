package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/shared/events"
	"mareblu/internal/domain/shared/money"
	"mareblu/internal/domain/shared/stayperiod"
)

var (
	ErrInvalidState   = errors.New("reservation: invalid state transition")
	ErrGuestRequired  = errors.New("reservation: guest name is required")
	ErrNoApartments   = errors.New("reservation: at least one apartment is required")
	ErrInvalidGuests  = errors.New("reservation: guest count must be positive")
	ErrNotFound       = errors.New("reservation: not found")
	ErrInvalidPayment = errors.New("reservation: unknown payment status")
)

type ReservationID string

// State is a closed set; the admin surface must not invent new ones.
type State string

const (
	StatePending   State = "PENDING"
	StateConfirmed State = "CONFIRMED"
	StateCancelled State = "CANCELLED"
	StateCompleted State = "COMPLETED"
)

// PaymentStatus tracks how much of the quoted amount has been collected.
type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "UNPAID"
	PaymentDepositPaid PaymentStatus = "DEPOSIT_PAID"
	PaymentPaid        PaymentStatus = "PAID"
)

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case PaymentUnpaid:
		return PaymentUnpaid, nil
	case PaymentDepositPaid:
		return PaymentDepositPaid, nil
	case PaymentPaid:
		return PaymentPaid, nil
	default:
		return "", ErrInvalidPayment
	}
}

// Reservation is the back-office booking aggregate. The pricing core never
// touches these; it only sees the reduced overlap view.
type Reservation struct {
	ID         ReservationID
	GuestName  string
	GuestEmail string
	GuestPhone string
	Apartments []catalog.ApartmentID
	Period     stayperiod.Period
	Guests     int
	Quoted     money.Money
	Deposit    money.Money
	State      State
	Payment    PaymentStatus
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ReservationID) (*Reservation, error)
	Save(ctx context.Context, r *Reservation) error
	All(ctx context.Context) ([]*Reservation, error)
	// OverlappingPeriod returns reservations whose stay intersects the given
	// period, regardless of apartment. Cancelled ones are excluded.
	OverlappingPeriod(ctx context.Context, period stayperiod.Period) ([]*Reservation, error)
}

type CreateParams struct {
	ID         ReservationID
	GuestName  string
	GuestEmail string
	GuestPhone string
	Apartments []catalog.ApartmentID
	Period     stayperiod.Period
	Guests     int
	Quoted     money.Money
	Deposit    money.Money
	Notes      string
	Now        time.Time
}

func New(params CreateParams) (*Reservation, error) {
	if strings.TrimSpace(params.GuestName) == "" {
		return nil, ErrGuestRequired
	}
	if len(params.Apartments) == 0 {
		return nil, ErrNoApartments
	}
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if err := params.Period.Validate(); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	r := &Reservation{
		ID:         params.ID,
		GuestName:  params.GuestName,
		GuestEmail: params.GuestEmail,
		GuestPhone: params.GuestPhone,
		Apartments: params.Apartments,
		Period:     params.Period,
		Guests:     params.Guests,
		Quoted:     params.Quoted,
		Deposit:    params.Deposit,
		State:      StatePending,
		Payment:    PaymentUnpaid,
		Notes:      params.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.Record(ReservationRequested{ReservationID: r.ID, Apartments: r.Apartments, Period: r.Period, Guests: r.Guests, Quoted: r.Quoted, At: now})
	return r, nil
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.State != StatePending {
		return ErrInvalidState
	}
	r.State = StateConfirmed
	r.UpdatedAt = now.UTC()
	r.Record(ReservationConfirmed{ReservationID: r.ID, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) Cancel(reason string, now time.Time) error {
	if r.State != StatePending && r.State != StateConfirmed {
		return ErrInvalidState
	}
	r.State = StateCancelled
	r.UpdatedAt = now.UTC()
	r.Record(ReservationCancelled{ReservationID: r.ID, Reason: reason, At: r.UpdatedAt})
	return nil
}

// Complete marks a confirmed stay as checked out.
func (r *Reservation) Complete(now time.Time) error {
	if r.State != StateConfirmed {
		return ErrInvalidState
	}
	r.State = StateCompleted
	r.UpdatedAt = now.UTC()
	r.Record(ReservationCompleted{ReservationID: r.ID, At: r.UpdatedAt})
	return nil
}

func (r *Reservation) RecordPayment(status PaymentStatus, now time.Time) error {
	switch status {
	case PaymentUnpaid, PaymentDepositPaid, PaymentPaid:
	default:
		return ErrInvalidPayment
	}
	r.Payment = status
	r.UpdatedAt = now.UTC()
	return nil
}

// Blocks reports this reservation's apartments and period for availability
// checks. Cancelled reservations block nothing.
func (r *Reservation) Blocks() bool {
	return r.State != StateCancelled
}
