package suggest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"buzzboard/internal/models"
	"buzzboard/internal/store"
)

// Provider derives keyword suggestions from the search history log. It is
// read-only: an empty or missing history yields empty results, never errors.
type Provider struct {
	store store.Store
}

// NewProvider creates a suggestion provider over the given store.
func NewProvider(s store.Store) *Provider {
	return &Provider{store: s}
}

// Suggest returns the most-searched keywords, count descending, ties broken
// by first appearance in the history. A limit of zero or less returns all.
func (p *Provider) Suggest(ctx context.Context, limit int) ([]models.Suggestion, error) {
	ranked, err := p.ranked(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Filter returns the suggestions whose keyword contains q, case-insensitively,
// keeping each entry's global rank. An empty q matches everything.
func (p *Provider) Filter(ctx context.Context, q string, limit int) ([]models.Suggestion, error) {
	ranked, err := p.ranked(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q))
	var matches []models.Suggestion
	for _, s := range ranked {
		if needle != "" && !strings.Contains(s.Keyword, needle) {
			continue
		}
		matches = append(matches, s)
		if limit > 0 && len(matches) == limit {
			break
		}
	}
	return matches, nil
}

// Popular returns the ranked keywords enriched with each one's day-over-day
// trend from its stored series. Keywords with no stored series trend flat.
func (p *Provider) Popular(ctx context.Context, limit int, now time.Time) ([]models.PopularSearch, error) {
	ranked, err := p.ranked(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	popular := make([]models.PopularSearch, 0, len(ranked))
	for _, s := range ranked {
		var yesterday, dayBefore int64
		series, err := p.store.LoadSeries(ctx, s.Keyword)
		if err != nil && !errors.Is(err, store.ErrSeriesNotFound) {
			return nil, err
		}
		if err == nil {
			yesterday, dayBefore = series.LastTwoDays(now)
		}

		percent, trend := models.TrendBetween(yesterday, dayBefore)
		popular = append(popular, models.PopularSearch{
			Keyword:       s.Keyword,
			Count:         s.Count,
			PercentChange: percent,
			Trend:         trend,
		})
	}
	return popular, nil
}

// ranked counts history occurrences per keyword and orders them into the
// global suggestion ranking.
func (p *Provider) ranked(ctx context.Context) ([]models.Suggestion, error) {
	entries, err := p.store.ReadHistory(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(entries))
	firstSeen := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, ok := counts[e.Keyword]; !ok {
			firstSeen[e.Keyword] = i
		}
		counts[e.Keyword]++
	}

	keywords := make([]string, 0, len(counts))
	for kw := range counts {
		keywords = append(keywords, kw)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return firstSeen[keywords[i]] < firstSeen[keywords[j]]
	})

	suggestions := make([]models.Suggestion, len(keywords))
	for i, kw := range keywords {
		suggestions[i] = models.Suggestion{Keyword: kw, Count: counts[kw], Rank: i + 1}
	}
	return suggestions, nil
}
