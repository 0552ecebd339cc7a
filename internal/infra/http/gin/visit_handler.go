package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"mareblu/internal/app/commands"
	visitsapp "mareblu/internal/app/handlers/visits"
)

type VisitHandler struct {
	Commands commands.Bus
}

type logVisitRequest struct {
	Path string `json:"path"`
}

func (h VisitHandler) Log(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req logVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := visitsapp.LogVisitCommand{
		Path: req.Path,
		IP:   c.ClientIP(),
	}
	result, err := commands.Dispatch[visitsapp.LogVisitCommand, *visitsapp.LogVisitResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, result)
}

var _ VisitHTTP = VisitHandler{}
