package store

import (
	"context"
	"time"

	"buzzboard/internal/models"
)

// Store persists keyword series, the search logs, the wallet registry, and
// the points ledger. Handlers and jobs depend on this interface so tests can
// substitute MemStore for the file-backed implementation.
type Store interface {
	// SaveSeries overwrites the stored series for its keyword. Last write wins.
	SaveSeries(ctx context.Context, series models.Series) error
	// LoadSeries returns the stored series for a keyword, or ErrSeriesNotFound.
	LoadSeries(ctx context.Context, keyword string) (models.Series, error)

	// AppendHistory adds one row to the append-only search history log.
	AppendHistory(ctx context.Context, keyword string, at time.Time) error
	// ReadHistory returns all history rows in append order. Missing file reads
	// as empty.
	ReadHistory(ctx context.Context) ([]models.HistoryEntry, error)

	// AppendRecent adds one row to the recent-searches log, then drops the
	// oldest rows until at most maxEntries remain.
	AppendRecent(ctx context.Context, keyword string, at time.Time, maxEntries int) error
	// ReadRecent returns the recent-searches rows in append order.
	ReadRecent(ctx context.Context) ([]models.RecentSearch, error)

	// RegisterWallet records a wallet on first connect and ensures it has a
	// ledger row. Returns true when the wallet was not seen before.
	RegisterWallet(ctx context.Context, address string, at time.Time) (bool, error)
	// Wallets returns every registered wallet in registration order.
	Wallets(ctx context.Context) ([]models.WalletConnection, error)

	// CreditPoints adds one point to a wallet and returns the new total.
	// Unseen wallets start from zero.
	CreditPoints(ctx context.Context, address string) (int64, error)
	// Points returns a wallet's current total, zero for unseen wallets.
	Points(ctx context.Context, address string) (int64, error)
	// AllPoints returns the whole ledger ordered by wallet address.
	AllPoints(ctx context.Context) ([]models.WalletAccount, error)

	// LastRefresh returns when a keyword's series was last fetched, or the
	// zero time if it never was.
	LastRefresh(ctx context.Context, keyword string) (time.Time, error)
	// SetLastRefresh records a fetch time for a keyword.
	SetLastRefresh(ctx context.Context, keyword string, at time.Time) error
	// RefreshTimes returns the keyword -> last fetch time map.
	RefreshTimes(ctx context.Context) (map[string]time.Time, error)

	// Ping reports whether the store's backing medium is usable.
	Ping(ctx context.Context) error
}
