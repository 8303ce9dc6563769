package jobs

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"buzzboard/internal/metrics"
	"buzzboard/internal/models"
	"buzzboard/internal/store"
	"buzzboard/internal/validation"
)

// refreshBatchLimit caps how many keywords a single pass refreshes.
const refreshBatchLimit = 50

// CountsFetcher fetches the recent mention counts for a keyword.
type CountsFetcher interface {
	RecentCounts(ctx context.Context, keyword string) (models.Series, error)
}

// Refresher performs background refreshes of stored keyword series so
// charts stay current between searches.
type Refresher struct {
	store     store.Store
	fetcher   CountsFetcher
	interval  time.Duration
	maxAge    time.Duration
	watchlist []string
	pause     time.Duration
}

// NewRefresher creates a new series refresher. Watchlist keywords are
// refreshed even if they have never been searched.
func NewRefresher(s store.Store, fetcher CountsFetcher, interval, maxAge time.Duration, watchlist []string) *Refresher {
	return &Refresher{
		store:     s,
		fetcher:   fetcher,
		interval:  interval,
		maxAge:    maxAge,
		watchlist: watchlist,
		pause:     1 * time.Second,
	}
}

// Start begins the background refresh loop.
func (r *Refresher) Start(ctx context.Context) {
	log.Info().Dur("interval", r.interval).Dur("max_age", r.maxAge).Msg("refresher started")

	// Run immediately on start
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("refresher stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce refreshes every stale keyword, up to the batch limit.
func (r *Refresher) RunOnce(ctx context.Context) {
	stale, err := r.staleKeywords(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("refresher: failed to list keywords")
		return
	}
	if len(stale) == 0 {
		return
	}

	log.Info().Int("keywords", len(stale)).Msg("refresher: refreshing stale keywords")

	for _, keyword := range stale {
		// Check context before each fetch
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := r.refresh(ctx, keyword); err != nil {
			log.Error().Err(err).Str("keyword", keyword).Msg("refresher: refresh failed")
		}

		// Delay between fetches to stay inside the counts API rate limits
		if r.pause > 0 {
			time.Sleep(r.pause)
		}
	}
}

// staleKeywords returns the keywords due for a refresh: watchlist entries
// and previously refreshed keywords whose last refresh is older than maxAge
// or missing.
func (r *Refresher) staleKeywords(ctx context.Context, now time.Time) ([]string, error) {
	times, err := r.store.RefreshTimes(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(times)+len(r.watchlist))
	candidates := make([]string, 0, len(times)+len(r.watchlist))
	for _, keyword := range r.watchlist {
		keyword = validation.NormalizeKeyword(keyword)
		if keyword == "" {
			continue
		}
		if _, ok := seen[keyword]; ok {
			continue
		}
		seen[keyword] = struct{}{}
		candidates = append(candidates, keyword)
	}
	for keyword := range times {
		if _, ok := seen[keyword]; ok {
			continue
		}
		seen[keyword] = struct{}{}
		candidates = append(candidates, keyword)
	}
	sort.Strings(candidates)

	cutoff := now.Add(-r.maxAge)
	stale := make([]string, 0, len(candidates))
	for _, keyword := range candidates {
		if last, ok := times[keyword]; ok && last.After(cutoff) {
			continue
		}
		stale = append(stale, keyword)
		if len(stale) >= refreshBatchLimit {
			break
		}
	}
	return stale, nil
}

func (r *Refresher) refresh(ctx context.Context, keyword string) error {
	series, err := r.fetcher.RecentCounts(ctx, keyword)
	if err != nil {
		metrics.RecordUpstream("error")
		return err
	}
	metrics.RecordUpstream("ok")

	if err := r.store.SaveSeries(ctx, series); err != nil {
		return err
	}
	return r.store.SetLastRefresh(ctx, keyword, time.Now())
}
