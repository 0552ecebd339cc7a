package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mareblu/internal/app/commands"
	reservationsapp "mareblu/internal/app/handlers/reservations"
	"mareblu/internal/app/queries"
	"mareblu/internal/domain/reservation"
	"mareblu/internal/domain/shared/stayperiod"
)

type ReservationsHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createReservationRequest struct {
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	GuestPhone string    `json:"guest_phone"`
	Apartments []string  `json:"apartments"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Guests     int       `json:"guests"`
	Quoted     int64     `json:"quoted"`
	Deposit    int64     `json:"deposit"`
	Notes      string    `json:"notes"`
}

type changeStatusRequest struct {
	Transition string `json:"transition"`
	Reason     string `json:"reason"`
	Payment    string `json:"payment"`
}

func (h ReservationsHandler) List(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := reservationsapp.ListReservationsQuery{State: c.Query("state")}
	result, err := queries.Ask[reservationsapp.ListReservationsQuery, *reservationsapp.ListReservationsResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReservationsHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reservationsapp.CreateReservationCommand{
		CommandID:  uuid.NewString(),
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
		Apartments: req.Apartments,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Guests:     req.Guests,
		Quoted:     req.Quoted,
		Deposit:    req.Deposit,
		Notes:      req.Notes,
	}
	result, err := commands.Dispatch[reservationsapp.CreateReservationCommand, *reservationsapp.CreateReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		c.JSON(reservationErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReservationsHandler) ChangeStatus(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reservationsapp.ChangeStatusCommand{
		ReservationID: c.Param("id"),
		Transition:    reservationsapp.Transition(req.Transition),
		Reason:        req.Reason,
		Payment:       req.Payment,
	}
	result, err := commands.Dispatch[reservationsapp.ChangeStatusCommand, *reservationsapp.ChangeStatusResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		c.JSON(reservationErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func reservationErrorStatus(err error) int {
	switch {
	case errors.Is(err, reservation.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, reservationsapp.ErrNotBookable):
		return http.StatusConflict
	case errors.Is(err, reservation.ErrInvalidState), errors.Is(err, reservation.ErrInvalidPayment), errors.Is(err, reservationsapp.ErrUnknownTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, stayperiod.ErrInvalidPeriod):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

var _ ReservationsHTTP = ReservationsHandler{}
