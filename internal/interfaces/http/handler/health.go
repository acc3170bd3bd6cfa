package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness of the print server
type HealthHandler struct {
	driver    string
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler for the named printer driver
func NewHealthHandler(driver string) *HealthHandler {
	return &HealthHandler{
		driver:    driver,
		startTime: time.Now(),
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Driver string `json:"driver"`
	Uptime string `json:"uptime"`
}

// Health responds with the server status
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
		Driver: h.driver,
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	})
}
