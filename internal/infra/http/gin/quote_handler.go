package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"mareblu/internal/app/commands"
	quoteapp "mareblu/internal/app/handlers/quote"
	"mareblu/internal/domain/catalog"
	"mareblu/internal/domain/pricing"
	"mareblu/internal/domain/stay"
)

type QuoteHandler struct {
	Commands commands.Bus
}

type childRequest struct {
	Under12           bool `json:"under_12"`
	SleepsWithParents bool `json:"sleeps_with_parents"`
	SleepsInCrib      bool `json:"sleeps_in_crib"`
}

type computeQuoteRequest struct {
	CheckIn           time.Time       `json:"check_in"`
	CheckOut          time.Time       `json:"check_out"`
	Adults            int             `json:"adults"`
	Children          []childRequest  `json:"children"`
	Apartments        []string        `json:"apartments"`
	Occupants         map[string]int  `json:"occupants"`
	Linen             bool            `json:"linen"`
	LinenDistribution map[string]int  `json:"linen_distribution"`
	HasPets           bool            `json:"has_pets"`
	PetApartments     map[string]bool `json:"pet_apartments"`
	GuestEmail        string          `json:"guest_email"`
	GuestName         string          `json:"guest_name"`
}

func (h QuoteHandler) Compute(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req computeQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	children := make([]quoteapp.ChildInput, 0, len(req.Children))
	for _, child := range req.Children {
		children = append(children, quoteapp.ChildInput{
			Under12:           child.Under12,
			SleepsWithParents: child.SleepsWithParents,
			SleepsInCrib:      child.SleepsInCrib,
		})
	}
	cmd := quoteapp.ComputeQuoteCommand{
		CheckIn:           req.CheckIn,
		CheckOut:          req.CheckOut,
		Adults:            req.Adults,
		Children:          children,
		Apartments:        req.Apartments,
		Occupants:         req.Occupants,
		Linen:             req.Linen,
		LinenDistribution: req.LinenDistribution,
		HasPets:           req.HasPets,
		PetApartments:     req.PetApartments,
		GuestEmail:        req.GuestEmail,
		GuestName:         req.GuestName,
	}
	result, err := commands.Dispatch[quoteapp.ComputeQuoteCommand, *quoteapp.ComputeQuoteResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		c.JSON(quoteErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func quoteErrorStatus(err error) int {
	switch {
	case errors.Is(err, stay.ErrTooShort),
		errors.Is(err, stay.ErrTooLong),
		errors.Is(err, stay.ErrWeekdayNotAllowed),
		errors.Is(err, stay.ErrNoAdults),
		errors.Is(err, quoteapp.ErrNoApartmentsSelected),
		errors.Is(err, pricing.ErrDistributionMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pricing.ErrPriceNotFound):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrApartmentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

var _ QuoteHTTP = QuoteHandler{}
