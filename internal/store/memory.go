package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"buzzboard/internal/models"
	"buzzboard/internal/validation"
)

// MemStore is an in-memory Store for tests and ephemeral runs. It honors the
// same normalization, eviction, and default-zero semantics as FileStore.
type MemStore struct {
	mu      sync.Mutex
	series  map[string]models.Series
	history []models.HistoryEntry
	recent  []models.RecentSearch
	wallets []models.WalletConnection
	ledger  map[string]int64
	refresh map[string]time.Time
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		series:  make(map[string]models.Series),
		ledger:  make(map[string]int64),
		refresh: make(map[string]time.Time),
	}
}

func (s *MemStore) SaveSeries(ctx context.Context, series models.Series) error {
	keyword := validation.NormalizeKeyword(series.Keyword)
	if keyword == "" {
		return ErrEmptyKeyword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := models.Series{Keyword: keyword, Points: make([]models.SeriesPoint, len(series.Points))}
	copy(stored.Points, series.Points)
	s.series[safeName(keyword)] = stored
	return nil
}

func (s *MemStore) LoadSeries(ctx context.Context, keyword string) (models.Series, error) {
	normalized := validation.NormalizeKeyword(keyword)
	if normalized == "" {
		return models.Series{}, ErrEmptyKeyword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	series, ok := s.series[safeName(normalized)]
	if !ok {
		return models.Series{}, ErrSeriesNotFound
	}
	out := models.Series{Keyword: normalized, Points: make([]models.SeriesPoint, len(series.Points))}
	copy(out.Points, series.Points)
	return out, nil
}

func (s *MemStore) AppendHistory(ctx context.Context, keyword string, at time.Time) error {
	normalized := validation.NormalizeKeyword(keyword)
	if normalized == "" {
		return ErrEmptyKeyword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, models.HistoryEntry{Keyword: normalized, Timestamp: at.UTC()})
	return nil
}

func (s *MemStore) ReadHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out, nil
}

func (s *MemStore) AppendRecent(ctx context.Context, keyword string, at time.Time, maxEntries int) error {
	normalized := validation.NormalizeKeyword(keyword)
	if normalized == "" {
		return ErrEmptyKeyword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append(s.recent, models.RecentSearch{Keyword: normalized, Timestamp: at.UTC()})
	if maxEntries > 0 && len(s.recent) > maxEntries {
		s.recent = s.recent[len(s.recent)-maxEntries:]
	}
	return nil
}

func (s *MemStore) ReadRecent(ctx context.Context) ([]models.RecentSearch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.RecentSearch, len(s.recent))
	copy(out, s.recent)
	return out, nil
}

func (s *MemStore) RegisterWallet(ctx context.Context, address string, at time.Time) (bool, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return false, ErrEmptyWalletAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.wallets {
		if w.Address == address {
			return false, nil
		}
	}
	s.wallets = append(s.wallets, models.WalletConnection{Address: address, ConnectedAt: at.UTC()})
	if _, ok := s.ledger[address]; !ok {
		s.ledger[address] = 0
	}
	return true, nil
}

func (s *MemStore) Wallets(ctx context.Context) ([]models.WalletConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.WalletConnection, len(s.wallets))
	copy(out, s.wallets)
	return out, nil
}

func (s *MemStore) CreditPoints(ctx context.Context, address string) (int64, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return 0, ErrEmptyWalletAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger[address]++
	return s.ledger[address], nil
}

func (s *MemStore) Points(ctx context.Context, address string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger[strings.TrimSpace(address)], nil
}

func (s *MemStore) AllPoints(ctx context.Context) ([]models.WalletAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]models.WalletAccount, 0, len(s.ledger))
	for address, points := range s.ledger {
		accounts = append(accounts, models.WalletAccount{Address: address, Points: points})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Address < accounts[j].Address })
	return accounts, nil
}

func (s *MemStore) LastRefresh(ctx context.Context, keyword string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refresh[validation.NormalizeKeyword(keyword)], nil
}

func (s *MemStore) SetLastRefresh(ctx context.Context, keyword string, at time.Time) error {
	normalized := validation.NormalizeKeyword(keyword)
	if normalized == "" {
		return ErrEmptyKeyword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh[normalized] = at.UTC()
	return nil
}

func (s *MemStore) RefreshTimes(ctx context.Context) (map[string]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]time.Time, len(s.refresh))
	for kw, t := range s.refresh {
		out[kw] = t
	}
	return out, nil
}

func (s *MemStore) Ping(ctx context.Context) error {
	return nil
}
