package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adoptions/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	kv port.KeyValueStore
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(kv port.KeyValueStore) *HealthHandler {
	return &HealthHandler{kv: kv}
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.kv.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "record store not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
