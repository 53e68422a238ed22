package handlers

import (
	"time"

	"stockroom/internal/config"
	"stockroom/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Check handles the health check
// @Summary Health check
// @Description Reports service liveness and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "down"
		return c.Status(fiber.StatusServiceUnavailable).JSON(response.Envelope{
			Data: fiber.Map{
				"database": dbStatus,
				"uptime":   time.Since(h.startedAt).String(),
			},
			Status:  response.StatusError,
			Message: "Database unreachable",
		})
	}

	return response.Success(c, "OK", fiber.Map{
		"database": dbStatus,
		"uptime":   time.Since(h.startedAt).String(),
	})
}
