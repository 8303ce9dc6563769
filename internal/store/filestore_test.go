package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buzzboard/internal/models"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileStore(Options{
		DataDir:     filepath.Join(dir, "data"),
		HistoryFile: filepath.Join(dir, "search_history.csv"),
		RecentFile:  filepath.Join(dir, "recent_searches.csv"),
		AccountDir:  filepath.Join(dir, "account-list"),
		RefreshFile: filepath.Join(dir, "last_refresh.json"),
	})
	require.NoError(t, err)
	return s
}

// testStores runs the shared behavioral suite against both implementations.
func testStores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"file":   newTestFileStore(t),
		"memory": NewMemStore(),
	}
}

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func TestSeriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	series := models.Series{
		Keyword: "bitcoin",
		Points: []models.SeriesPoint{
			{Date: day(2025, 5, 30), Count: 10},
			{Date: day(2025, 5, 31), Count: 0},
			{Date: day(2025, 6, 1), Count: 42},
		},
	}

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveSeries(ctx, series))

			got, err := s.LoadSeries(ctx, "bitcoin")
			require.NoError(t, err)
			assert.Equal(t, "bitcoin", got.Keyword)
			assert.Equal(t, series.Points, got.Points)
		})
	}
}

func TestLoadSeriesNotFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.LoadSeries(ctx, "never-searched")
			assert.ErrorIs(t, err, ErrSeriesNotFound)
		})
	}
}

func TestSaveSeriesNormalizesKeyword(t *testing.T) {
	ctx := context.Background()
	series := models.Series{
		Keyword: "  Climate   Change ",
		Points:  []models.SeriesPoint{{Date: day(2025, 6, 1), Count: 7}},
	}

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveSeries(ctx, series))

			for _, lookup := range []string{"climate change", "CLIMATE CHANGE", " climate   change "} {
				got, err := s.LoadSeries(ctx, lookup)
				require.NoError(t, err, "lookup %q", lookup)
				assert.Equal(t, "climate change", got.Keyword)
				assert.Equal(t, series.Points, got.Points)
			}
		})
	}
}

func TestSaveSeriesEmptyKeyword(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.SaveSeries(ctx, models.Series{Keyword: "   "})
			assert.ErrorIs(t, err, ErrEmptyKeyword)
		})
	}
}

func TestSaveSeriesOverwrites(t *testing.T) {
	ctx := context.Background()
	first := models.Series{Keyword: "golang", Points: []models.SeriesPoint{{Date: day(2025, 5, 30), Count: 1}}}
	second := models.Series{Keyword: "golang", Points: []models.SeriesPoint{{Date: day(2025, 6, 1), Count: 9}}}

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveSeries(ctx, first))
			require.NoError(t, s.SaveSeries(ctx, second))

			got, err := s.LoadSeries(ctx, "golang")
			require.NoError(t, err)
			assert.Equal(t, second.Points, got.Points)
		})
	}
}

// Filenames derive from the sanitized keyword, so keywords that sanitize to
// the same stem share one file. That collision is accepted, not resolved.
func TestSeriesFilenameCollision(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SaveSeries(ctx, models.Series{
				Keyword: "a.b",
				Points:  []models.SeriesPoint{{Date: day(2025, 6, 1), Count: 3}},
			}))

			got, err := s.LoadSeries(ctx, "a_b")
			require.NoError(t, err)
			require.Len(t, got.Points, 1)
			assert.Equal(t, int64(3), got.Points[0].Count)
		})
	}
}

func TestHistoryAppendAndRead(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.AppendHistory(ctx, "Bitcoin", base))
			require.NoError(t, s.AppendHistory(ctx, "ethereum", base.Add(time.Minute)))
			require.NoError(t, s.AppendHistory(ctx, "bitcoin", base.Add(2*time.Minute)))

			entries, err := s.ReadHistory(ctx)
			require.NoError(t, err)
			require.Len(t, entries, 3)
			assert.Equal(t, "bitcoin", entries[0].Keyword)
			assert.Equal(t, "ethereum", entries[1].Keyword)
			assert.Equal(t, "bitcoin", entries[2].Keyword)
			assert.Equal(t, base, entries[0].Timestamp)
			assert.Equal(t, base.Add(2*time.Minute), entries[2].Timestamp)
		})
	}
}

func TestReadHistoryEmpty(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			entries, err := s.ReadHistory(ctx)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestAppendRecentEvictsOldest(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	keywords := []string{"one", "two", "three", "four", "five"}

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			for i, kw := range keywords {
				require.NoError(t, s.AppendRecent(ctx, kw, base.Add(time.Duration(i)*time.Second), 3))
			}

			entries, err := s.ReadRecent(ctx)
			require.NoError(t, err)
			require.Len(t, entries, 3)
			assert.Equal(t, "three", entries[0].Keyword)
			assert.Equal(t, "four", entries[1].Keyword)
			assert.Equal(t, "five", entries[2].Keyword)
		})
	}
}

func TestAppendRecentUnderCap(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.AppendRecent(ctx, "one", base, 5))
			require.NoError(t, s.AppendRecent(ctx, "two", base.Add(time.Second), 5))

			entries, err := s.ReadRecent(ctx)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, "one", entries[0].Keyword)
			assert.Equal(t, "two", entries[1].Keyword)
		})
	}
}

func TestCreditPoints(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			total, err := s.CreditPoints(ctx, "wallet1234")
			require.NoError(t, err)
			assert.Equal(t, int64(1), total)

			for i := 0; i < 4; i++ {
				total, err = s.CreditPoints(ctx, "wallet1234")
				require.NoError(t, err)
			}
			assert.Equal(t, int64(5), total)

			points, err := s.Points(ctx, "wallet1234")
			require.NoError(t, err)
			assert.Equal(t, int64(5), points)
		})
	}
}

func TestCreditPointsConcurrent(t *testing.T) {
	ctx := context.Background()
	const workers = 10
	const creditsPerWorker = 5

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			errs := make(chan error, workers*creditsPerWorker)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < creditsPerWorker; j++ {
						if _, err := s.CreditPoints(ctx, "wallet1234"); err != nil {
							errs <- err
						}
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				t.Fatalf("concurrent credit failed: %v", err)
			}

			points, err := s.Points(ctx, "wallet1234")
			require.NoError(t, err)
			assert.Equal(t, int64(workers*creditsPerWorker), points)
		})
	}
}

func TestPointsUnseenWallet(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			points, err := s.Points(ctx, "neverseen1")
			require.NoError(t, err)
			assert.Equal(t, int64(0), points)
		})
	}
}

func TestRegisterWallet(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			isNew, err := s.RegisterWallet(ctx, "wallet1234", at)
			require.NoError(t, err)
			assert.True(t, isNew)

			// Ledger row exists with zero points.
			points, err := s.Points(ctx, "wallet1234")
			require.NoError(t, err)
			assert.Equal(t, int64(0), points)

			// Reconnecting neither re-registers nor resets points.
			_, err = s.CreditPoints(ctx, "wallet1234")
			require.NoError(t, err)

			isNew, err = s.RegisterWallet(ctx, "wallet1234", at.Add(time.Hour))
			require.NoError(t, err)
			assert.False(t, isNew)

			points, err = s.Points(ctx, "wallet1234")
			require.NoError(t, err)
			assert.Equal(t, int64(1), points)

			wallets, err := s.Wallets(ctx)
			require.NoError(t, err)
			require.Len(t, wallets, 1)
			assert.Equal(t, "wallet1234", wallets[0].Address)
			assert.Equal(t, at, wallets[0].ConnectedAt)
		})
	}
}

func TestAllPointsSortedByAddress(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.CreditPoints(ctx, "bbbb")
			require.NoError(t, err)
			_, err = s.CreditPoints(ctx, "aaaa")
			require.NoError(t, err)
			_, err = s.CreditPoints(ctx, "aaaa")
			require.NoError(t, err)

			accounts, err := s.AllPoints(ctx)
			require.NoError(t, err)
			require.Len(t, accounts, 2)
			assert.Equal(t, models.WalletAccount{Address: "aaaa", Points: 2}, accounts[0])
			assert.Equal(t, models.WalletAccount{Address: "bbbb", Points: 1}, accounts[1])
		})
	}
}

func TestRefreshTimes(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 8, 15, 30, 0, time.UTC)

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			last, err := s.LastRefresh(ctx, "bitcoin")
			require.NoError(t, err)
			assert.True(t, last.IsZero())

			require.NoError(t, s.SetLastRefresh(ctx, "Bitcoin", at))

			last, err = s.LastRefresh(ctx, "bitcoin")
			require.NoError(t, err)
			assert.Equal(t, at, last)

			times, err := s.RefreshTimes(ctx)
			require.NoError(t, err)
			require.Len(t, times, 1)
			assert.Equal(t, at, times["bitcoin"])
		})
	}
}

// The file-backed store survives rows it cannot parse (headers included) and
// keeps the parseable ones.
func TestFileStoreSkipsMalformedRows(t *testing.T) {
	ctx := context.Background()
	s := newTestFileStore(t)

	contents := "keyword,timestamp\nbitcoin,2025-06-01 10:00:00\nbroken,not-a-time\n"
	require.NoError(t, os.WriteFile(s.opts.HistoryFile, []byte(contents), 0o644))

	entries, err := s.ReadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bitcoin", entries[0].Keyword)
}

func TestFileStoreSeedsFilesOnce(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	opts := Options{
		DataDir:     filepath.Join(dir, "data"),
		HistoryFile: filepath.Join(dir, "search_history.csv"),
		RecentFile:  filepath.Join(dir, "recent_searches.csv"),
		AccountDir:  filepath.Join(dir, "account-list"),
		RefreshFile: filepath.Join(dir, "last_refresh.json"),
	}

	s, err := NewFileStore(opts)
	require.NoError(t, err)
	require.NoError(t, s.AppendHistory(ctx, "bitcoin", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)))

	// Reopening must not truncate existing data.
	s2, err := NewFileStore(opts)
	require.NoError(t, err)

	entries, err := s2.ReadHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, s2.Ping(ctx))
}
