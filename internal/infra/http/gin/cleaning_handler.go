package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	cleaningapp "mareblu/internal/app/handlers/cleaning"
	"mareblu/internal/app/queries"
)

type CleaningHandler struct {
	Queries queries.Bus
}

func (h CleaningHandler) Schedule(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := cleaningapp.ListTasksQuery{UpcomingOnly: c.Query("upcoming") == "true"}
	result, err := queries.Ask[cleaningapp.ListTasksQuery, *cleaningapp.ListTasksResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ CleaningHTTP = CleaningHandler{}
