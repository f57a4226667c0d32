// Package handler contains HTTP request handlers.
// In Gin, a handler is any function with signature func(*gin.Context).
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCounter reports how many sessions are live.
type SessionCounter interface {
	Len() int
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	sessions SessionCounter
}

func NewHealthHandler(sessions SessionCounter) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

// Healthz responds with service status and the number of live sessions.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "quote-service",
		"sessions": h.sessions.Len(),
	})
}
