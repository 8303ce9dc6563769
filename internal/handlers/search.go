package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"buzzboard/internal/config"
	"buzzboard/internal/metrics"
	"buzzboard/internal/middleware"
	"buzzboard/internal/models"
	"buzzboard/internal/store"
	"buzzboard/internal/suggest"
	"buzzboard/internal/validation"
)

// CountsFetcher fetches the recent mention counts for a keyword.
type CountsFetcher interface {
	RecentCounts(ctx context.Context, keyword string) (models.Series, error)
}

// SearchHandler serves the index page and runs keyword searches.
type SearchHandler struct {
	store       store.Store
	fetcher     CountsFetcher
	suggestions *suggest.Provider
	cfg         *config.Config
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(s store.Store, fetcher CountsFetcher, suggestions *suggest.Provider, cfg *config.Config) *SearchHandler {
	return &SearchHandler{store: s, fetcher: fetcher, suggestions: suggestions, cfg: cfg}
}

// recentItem is one row of the recent-searches listing.
type recentItem struct {
	Keyword  string
	Searched string
}

// pagination carries the page links for one listing. Prev and Next are
// zero at the edges so templates can skip the links.
type pagination struct {
	Page  int
	Pages int
	Prev  int
	Next  int
}

func newPagination(page, pages int) pagination {
	p := pagination{Page: page, Pages: pages}
	if page > 1 {
		p.Prev = page - 1
	}
	if page < pages {
		p.Next = page + 1
	}
	return p
}

// Index renders the dashboard with the popular and recent listings.
func (h *SearchHandler) Index(c fiber.Ctx) error {
	data, err := h.indexData(c, time.Now())
	if err != nil {
		return err
	}
	data["Flashes"] = popFlashes(c)
	return c.Render("index", MergeBranding(data, h.cfg))
}

// Search runs a keyword search: fetches mention counts, records the
// search, credits the wallet a point, and renders the dashboard with
// the fresh series. Failures flash an error and redirect to the index.
func (h *SearchHandler) Search(c fiber.Ctx) error {
	wallet := middleware.WalletFromCtx(c)
	raw := c.FormValue("query")

	if ok, msg := validation.ValidateKeyword(raw); !ok {
		metrics.RecordSearch(metrics.OutcomeValidation)
		return flashError(c, "[ERROR] "+msg)
	}
	keyword := validation.NormalizeKeyword(raw)

	series, err := h.fetcher.RecentCounts(c.Context(), keyword)
	if err != nil {
		log.Error().Err(err).Str("keyword", keyword).Msg("counts fetch failed")
		metrics.RecordUpstream("error")
		metrics.RecordSearch(metrics.OutcomeUpstream)
		return flashError(c, "[ERROR] Failed to fetch mention counts. Please try again later.")
	}
	metrics.RecordUpstream("ok")

	now := time.Now()
	if err := h.store.SaveSeries(c.Context(), series); err != nil {
		return h.storageFailure(c, keyword, "save series", err)
	}
	if err := h.store.AppendHistory(c.Context(), keyword, now); err != nil {
		return h.storageFailure(c, keyword, "append history", err)
	}
	if err := h.store.AppendRecent(c.Context(), keyword, now, h.cfg.RecentCap); err != nil {
		return h.storageFailure(c, keyword, "append recent", err)
	}
	if err := h.store.SetLastRefresh(c.Context(), keyword, now); err != nil {
		return h.storageFailure(c, keyword, "record refresh", err)
	}
	points, err := h.store.CreditPoints(c.Context(), wallet)
	if err != nil {
		return h.storageFailure(c, keyword, "credit points", err)
	}
	metrics.RecordSearch(metrics.OutcomeSuccess)

	chartJSON, err := json.Marshal(series.Points)
	if err != nil {
		return err
	}

	data, err := h.indexData(c, now)
	if err != nil {
		return err
	}
	data["Flashes"] = popFlashes(c)
	data["IsSearch"] = true
	data["SearchKeyword"] = keyword
	data["SearchTotal"] = series.Total()
	data["SearchSeries"] = string(chartJSON)
	data["Points"] = points
	return c.Render("index", MergeBranding(data, h.cfg))
}

// Chart renders the stored series for one keyword.
func (h *SearchHandler) Chart(c fiber.Ctx) error {
	raw := c.Params("keyword")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	keyword := validation.NormalizeKeyword(raw)

	series, err := h.store.LoadSeries(c.Context(), keyword)
	if err != nil {
		if errors.Is(err, store.ErrSeriesNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "No data recorded for this keyword yet.")
		}
		return err
	}

	chartJSON, err := json.Marshal(series.Points)
	if err != nil {
		return err
	}

	data := fiber.Map{
		"Keyword":    keyword,
		"Total":      series.Total(),
		"SeriesJSON": string(chartJSON),
	}
	refreshed, err := h.store.LastRefresh(c.Context(), keyword)
	if err != nil {
		return err
	}
	if !refreshed.IsZero() {
		data["Refreshed"] = models.HumanDuration(time.Since(refreshed))
	}
	return c.Render("chart", MergeBranding(data, h.cfg))
}

// indexData assembles the listings shared by the dashboard views.
func (h *SearchHandler) indexData(c fiber.Ctx, now time.Time) (fiber.Map, error) {
	popular, err := h.suggestions.Popular(c.Context(), 0, now)
	if err != nil {
		return nil, err
	}
	pStart, pEnd, popPage, popPages := paginate(len(popular), queryInt(c, "popular_page", 1), h.cfg.PerPage)

	recent, err := h.recentItems(c.Context(), now)
	if err != nil {
		return nil, err
	}
	rStart, rEnd, recPage, recPages := paginate(len(recent), queryInt(c, "recent_page", 1), h.cfg.PerPage)

	data := fiber.Map{
		"Popular":       popular[pStart:pEnd],
		"PopularPaging": newPagination(popPage, popPages),
		"Recent":        recent[rStart:rEnd],
		"RecentPaging":  newPagination(recPage, recPages),
		"SearchKeyword": "",
	}

	if wallet := middleware.WalletFromCtx(c); wallet != "" {
		points, err := h.store.Points(c.Context(), wallet)
		if err != nil {
			log.Error().Err(err).Str("wallet", wallet).Msg("points lookup failed")
		}
		data["Wallet"] = wallet
		data["Points"] = points
	}
	return data, nil
}

// recentItems returns the recent log deduplicated by keyword, newest
// first, with humanized ages.
func (h *SearchHandler) recentItems(ctx context.Context, now time.Time) ([]recentItem, error) {
	entries, err := h.store.ReadRecent(ctx)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		if ts, ok := latest[e.Keyword]; !ok || e.Timestamp.After(ts) {
			latest[e.Keyword] = e.Timestamp
		}
	}

	unique := make([]models.RecentSearch, 0, len(latest))
	for keyword, ts := range latest {
		unique = append(unique, models.RecentSearch{Keyword: keyword, Timestamp: ts})
	}
	sort.Slice(unique, func(i, j int) bool {
		if !unique[i].Timestamp.Equal(unique[j].Timestamp) {
			return unique[i].Timestamp.After(unique[j].Timestamp)
		}
		return unique[i].Keyword < unique[j].Keyword
	})

	items := make([]recentItem, len(unique))
	for i, e := range unique {
		items[i] = recentItem{Keyword: e.Keyword, Searched: e.TimeSince(now)}
	}
	return items, nil
}

func (h *SearchHandler) storageFailure(c fiber.Ctx, keyword, op string, err error) error {
	log.Error().Err(err).Str("keyword", keyword).Str("op", op).Msg("search storage failure")
	metrics.RecordSearch(metrics.OutcomeStorage)
	return flashError(c, "[ERROR] Failed to record the search. Please try again later.")
}

// queryInt parses an integer query parameter, falling back to def when
// the parameter is absent or malformed.
func queryInt(c fiber.Ctx, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
