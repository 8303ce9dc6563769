package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"github.com/rs/zerolog/log"

	"buzzboard/internal/middleware"
	"buzzboard/internal/store"
	"buzzboard/internal/validation"
)

// WalletHandler handles wallet connect and disconnect requests.
type WalletHandler struct {
	store store.Store
}

// NewWalletHandler creates a new wallet handler.
func NewWalletHandler(s store.Store) *WalletHandler {
	return &WalletHandler{store: s}
}

// Connect registers the wallet on first connect, stores the address in
// the session, and returns the wallet's current points.
func (h *WalletHandler) Connect(c fiber.Ctx) error {
	var body struct {
		Address string `json:"wallet_address"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateWalletAddress(body.Address); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	address := validation.NormalizeWalletAddress(body.Address)

	isNew, err := h.store.RegisterWallet(c.Context(), address, time.Now())
	if err != nil {
		log.Error().Err(err).Str("wallet", address).Msg("wallet registration failed")
		return jsonError(c, fiber.StatusInternalServerError, "failed to connect wallet")
	}

	points, err := h.store.Points(c.Context(), address)
	if err != nil {
		log.Error().Err(err).Str("wallet", address).Msg("points lookup failed")
		return jsonError(c, fiber.StatusInternalServerError, "failed to connect wallet")
	}

	sess := session.FromContext(c)
	if sess == nil {
		return jsonError(c, fiber.StatusInternalServerError, "session unavailable")
	}
	sess.Set(middleware.SessionWalletKey, address)

	return jsonSuccess(c, fiber.Map{
		"message":        "Wallet connected successfully.",
		"wallet_address": address,
		"points":         points,
		"new_wallet":     isNew,
	})
}

// Disconnect removes the wallet address from the session.
func (h *WalletHandler) Disconnect(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		sess.Delete(middleware.SessionWalletKey)
	}

	return jsonSuccess(c, fiber.Map{
		"message": "Wallet disconnected.",
	})
}
