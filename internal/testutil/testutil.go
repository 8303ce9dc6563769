// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"buzzboard/internal/models"
	"buzzboard/internal/store"
)

// TestStore creates a file-backed store rooted in a temporary directory
// that the test framework removes afterwards.
func TestStore(t *testing.T) *store.FileStore {
	t.Helper()

	dir := t.TempDir()
	s, err := store.NewFileStore(store.Options{
		DataDir:     filepath.Join(dir, "data"),
		HistoryFile: filepath.Join(dir, "search_history.csv"),
		RecentFile:  filepath.Join(dir, "recent_searches.csv"),
		AccountDir:  filepath.Join(dir, "account-list"),
		RefreshFile: filepath.Join(dir, "last_refresh.json"),
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return s
}

// SeedHistory appends one history entry per keyword, each a second after
// the previous so first-seen ordering is deterministic.
func SeedHistory(t *testing.T, s store.Store, keywords ...string) {
	t.Helper()

	ctx := context.Background()
	at := time.Now().Add(-time.Hour)
	for _, keyword := range keywords {
		if err := s.AppendHistory(ctx, keyword, at); err != nil {
			t.Fatalf("failed to seed history with %q: %v", keyword, err)
		}
		at = at.Add(time.Second)
	}
}

// SeedSeries stores a series of daily counts ending today (UTC).
func SeedSeries(t *testing.T, s store.Store, keyword string, counts ...int64) {
	t.Helper()

	day := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]models.SeriesPoint, len(counts))
	for i, count := range counts {
		points[i] = models.SeriesPoint{
			Date:  day.AddDate(0, 0, i-len(counts)+1),
			Count: count,
		}
	}
	if err := s.SaveSeries(context.Background(), models.Series{Keyword: keyword, Points: points}); err != nil {
		t.Fatalf("failed to seed series for %q: %v", keyword, err)
	}
}

// ConnectWallet registers a wallet and credits it the given points.
func ConnectWallet(t *testing.T, s store.Store, address string, points int) {
	t.Helper()

	ctx := context.Background()
	if _, err := s.RegisterWallet(ctx, address, time.Now()); err != nil {
		t.Fatalf("failed to register wallet %q: %v", address, err)
	}
	for i := 0; i < points; i++ {
		if _, err := s.CreditPoints(ctx, address); err != nil {
			t.Fatalf("failed to credit wallet %q: %v", address, err)
		}
	}
}
