package api

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"buzzboard/internal/config"
	"buzzboard/internal/suggest"
)

// SuggestHandler serves keyword suggestions for the search box.
type SuggestHandler struct {
	suggestions *suggest.Provider
	cfg         *config.Config
}

// NewSuggestHandler creates a new suggest handler.
func NewSuggestHandler(suggestions *suggest.Provider, cfg *config.Config) *SuggestHandler {
	return &SuggestHandler{suggestions: suggestions, cfg: cfg}
}

// Suggest returns ranked keyword suggestions. An empty q returns the
// unfiltered top keywords; otherwise suggestions are filtered by
// case-insensitive substring match while keeping their global rank.
func (h *SuggestHandler) Suggest(c fiber.Ctx) error {
	limit := h.cfg.SuggestLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	suggestions, err := h.suggestions.Filter(c.Context(), c.Query("q"), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load suggestions")
	}

	return jsonSuccess(c, fiber.Map{
		"suggestions": suggestions,
	})
}
