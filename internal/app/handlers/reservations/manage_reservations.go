package reservations

import (
	"context"
	"errors"
	"sort"
	"time"

	"mareblu/internal/app/commands"
	"mareblu/internal/app/outbox"
	"mareblu/internal/app/queries"
	"mareblu/internal/domain/reservation"
)

const (
	changeStatusKey     = "reservations.change_status"
	listReservationsKey = "reservations.list"
)

var ErrUnknownTransition = errors.New("reservations: unknown status transition")

// Transition is the closed set of admin actions on a reservation.
type Transition string

const (
	TransitionConfirm  Transition = "confirm"
	TransitionCancel   Transition = "cancel"
	TransitionComplete Transition = "complete"
)

type ChangeStatusCommand struct {
	ReservationID string
	Transition    Transition
	Reason        string
	// Payment, when non-empty, also updates the payment status.
	Payment string
}

func (c ChangeStatusCommand) Key() string { return changeStatusKey }

type ChangeStatusResult struct {
	ReservationID string `json:"reservation_id"`
	State         string `json:"state"`
	Payment       string `json:"payment"`
}

type ChangeStatusHandler struct {
	Reservations reservation.Repository
	Outbox       outbox.Outbox
	Encoder      outbox.EventEncoder
	Now          func() time.Time
}

func (h *ChangeStatusHandler) Handle(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error) {
	res, err := h.Reservations.ByID(ctx, reservation.ReservationID(cmd.ReservationID))
	if err != nil {
		return nil, err
	}
	now := h.now()

	switch cmd.Transition {
	case TransitionConfirm:
		err = res.Confirm(now)
	case TransitionCancel:
		err = res.Cancel(cmd.Reason, now)
	case TransitionComplete:
		err = res.Complete(now)
	case "":
		// Payment-only updates are allowed.
	default:
		return nil, ErrUnknownTransition
	}
	if err != nil {
		return nil, err
	}

	if cmd.Payment != "" {
		status, err := reservation.ParsePaymentStatus(cmd.Payment)
		if err != nil {
			return nil, err
		}
		if err := res.RecordPayment(status, now); err != nil {
			return nil, err
		}
	}

	if err := h.Reservations.Save(ctx, res); err != nil {
		return nil, err
	}
	pending := res.PendingEvents()
	res.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, pending); err != nil {
		return nil, err
	}
	return &ChangeStatusResult{
		ReservationID: cmd.ReservationID,
		State:         string(res.State),
		Payment:       string(res.Payment),
	}, nil
}

func (h *ChangeStatusHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

type ListReservationsQuery struct {
	// State filters to one reservation state when non-empty.
	State string
}

func (q ListReservationsQuery) Key() string { return listReservationsKey }

type ReservationSummary struct {
	ID         string   `json:"id"`
	GuestName  string   `json:"guest_name"`
	Apartments []string `json:"apartments"`
	CheckIn    string   `json:"check_in"`
	CheckOut   string   `json:"check_out"`
	Guests     int      `json:"guests"`
	Quoted     int64    `json:"quoted"`
	State      string   `json:"state"`
	Payment    string   `json:"payment"`
}

type ListReservationsResult struct {
	Reservations []ReservationSummary `json:"reservations"`
}

type ListReservationsHandler struct {
	Reservations reservation.Repository
}

func (h *ListReservationsHandler) Handle(ctx context.Context, q ListReservationsQuery) (*ListReservationsResult, error) {
	all, err := h.Reservations.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ReservationSummary, 0, len(all))
	for _, res := range all {
		if q.State != "" && string(res.State) != q.State {
			continue
		}
		apartments := make([]string, 0, len(res.Apartments))
		for _, id := range res.Apartments {
			apartments = append(apartments, string(id))
		}
		out = append(out, ReservationSummary{
			ID:         string(res.ID),
			GuestName:  res.GuestName,
			Apartments: apartments,
			CheckIn:    res.Period.CheckIn.Format("2006-01-02"),
			CheckOut:   res.Period.CheckOut.Format("2006-01-02"),
			Guests:     res.Guests,
			Quoted:     res.Quoted.Amount,
			State:      string(res.State),
			Payment:    string(res.Payment),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckIn != out[j].CheckIn {
			return out[i].CheckIn < out[j].CheckIn
		}
		return out[i].ID < out[j].ID
	})
	return &ListReservationsResult{Reservations: out}, nil
}

var (
	_ commands.Handler[ChangeStatusCommand, *ChangeStatusResult]      = (*ChangeStatusHandler)(nil)
	_ queries.Handler[ListReservationsQuery, *ListReservationsResult] = (*ListReservationsHandler)(nil)
)
