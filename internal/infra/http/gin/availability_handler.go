package ginserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	availabilityapp "mareblu/internal/app/handlers/availability"
	"mareblu/internal/app/queries"
	"mareblu/internal/domain/catalog"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

func (h AvailabilityHandler) Check(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	checkIn, err := parseDateParam(c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_in"})
		return
	}
	checkOut, err := parseDateParam(c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_out"})
		return
	}
	query := availabilityapp.CheckAvailabilityQuery{
		ApartmentID: c.Param("id"),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      parseIntQuery(c, "guests"),
	}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, *availabilityapp.CheckAvailabilityResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, catalog.ErrApartmentNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseDateParam(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

func parseIntQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var _ AvailabilityHTTP = AvailabilityHandler{}
