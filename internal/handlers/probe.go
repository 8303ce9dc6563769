package handlers

import (
	"github.com/gofiber/fiber/v3"

	"buzzboard/internal/store"
)

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	store store.Store
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(s store.Store) *ProbeHandler {
	return &ProbeHandler{store: s}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if the application can serve traffic (storage is reachable).
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if err := h.store.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "storage unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
