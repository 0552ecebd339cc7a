package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"mareblu/internal/app/commands"
	pricesapp "mareblu/internal/app/handlers/prices"
	"mareblu/internal/app/queries"
	"mareblu/internal/domain/catalog"
)

type PricesHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type putPricesRequest struct {
	Entries []pricesapp.WeeklyPriceInput `json:"entries"`
}

func (h PricesHandler) List(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := pricesapp.ListWeeklyPricesQuery{ApartmentID: c.Query("apartment_id")}
	result, err := queries.Ask[pricesapp.ListWeeklyPricesQuery, *pricesapp.ListWeeklyPricesResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PricesHandler) Put(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req putPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := pricesapp.SetWeeklyPricesCommand{Entries: req.Entries}
	result, err := commands.Dispatch[pricesapp.SetWeeklyPricesCommand, *pricesapp.SetWeeklyPricesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, pricesapp.ErrWeekNotSaturday), errors.Is(err, pricesapp.ErrNegativePrice):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, catalog.ErrApartmentNotFound):
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ PricesHTTP = PricesHandler{}
