package api

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v3"

	"buzzboard/internal/store"
	"buzzboard/internal/validation"
)

// SeriesHandler serves stored mention-count series as JSON.
type SeriesHandler struct {
	store store.Store
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(s store.Store) *SeriesHandler {
	return &SeriesHandler{store: s}
}

// Get returns the stored series for a keyword.
func (h *SeriesHandler) Get(c fiber.Ctx) error {
	raw := c.Params("keyword")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	keyword := validation.NormalizeKeyword(raw)

	series, err := h.store.LoadSeries(c.Context(), keyword)
	if err != nil {
		if errors.Is(err, store.ErrSeriesNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to load series")
	}

	return jsonSuccess(c, fiber.Map{
		"keyword": series.Keyword,
		"points":  series.Points,
		"total":   series.Total(),
	})
}
