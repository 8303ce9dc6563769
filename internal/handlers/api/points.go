package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/rs/zerolog/log"

	"buzzboard/internal/middleware"
	"buzzboard/internal/store"
)

// PointsHandler serves the connected wallet's point balance.
type PointsHandler struct {
	store store.Store
}

// NewPointsHandler creates a new points handler.
func NewPointsHandler(s store.Store) *PointsHandler {
	return &PointsHandler{store: s}
}

// Points returns the current wallet's point balance.
func (h *PointsHandler) Points(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return jsonError(c, fiber.StatusUnauthorized, "no wallet connected")
	}
	address, _ := sess.Get(middleware.SessionWalletKey).(string)
	if address == "" {
		return jsonError(c, fiber.StatusUnauthorized, "no wallet connected")
	}

	points, err := h.store.Points(c.Context(), address)
	if err != nil {
		log.Error().Err(err).Str("wallet", address).Msg("points lookup failed")
		return jsonError(c, fiber.StatusInternalServerError, "failed to load points")
	}

	return jsonSuccess(c, fiber.Map{
		"wallet_address": address,
		"points":         points,
	})
}
