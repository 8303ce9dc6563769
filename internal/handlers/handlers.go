package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"buzzboard/internal/middleware"
)

// Flash is a one-shot message stored in the session and shown on the
// next rendered page.
type Flash struct {
	Level   string
	Message string
}

// popFlashes drains pending flash messages from the session.
func popFlashes(c fiber.Ctx) []Flash {
	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}

	var flashes []Flash
	if msg, _ := sess.Get(middleware.FlashErrorKey).(string); msg != "" {
		flashes = append(flashes, Flash{Level: "error", Message: msg})
		sess.Delete(middleware.FlashErrorKey)
	}
	if msg, _ := sess.Get(middleware.FlashSuccessKey).(string); msg != "" {
		flashes = append(flashes, Flash{Level: "success", Message: msg})
		sess.Delete(middleware.FlashSuccessKey)
	}
	return flashes
}

// flashError stores an error flash and redirects to the index page.
func flashError(c fiber.Ctx, message string) error {
	if sess := session.FromContext(c); sess != nil {
		sess.Set(middleware.FlashErrorKey, message)
	}
	return c.Redirect().To("/")
}

// paginate returns the slice bounds for page of n items, the page number
// after clamping into [1, totalPages], and totalPages itself. totalPages
// is at least 1 so an empty listing still renders page 1 of 1.
func paginate(n, page, perPage int) (start, end, clamped, totalPages int) {
	if perPage < 1 {
		perPage = 1
	}
	totalPages = (n + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start = (page - 1) * perPage
	end = start + perPage
	if end > n {
		end = n
	}
	return start, end, page, totalPages
}
