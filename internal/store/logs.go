package store

import (
	"context"
	"time"

	"buzzboard/internal/models"
	"buzzboard/internal/validation"
)

// AppendHistory adds one row to the append-only search history log.
func (s *FileStore) AppendHistory(ctx context.Context, keyword string, at time.Time) error {
	normalized := validation.NormalizeKeyword(keyword)
	if normalized == "" {
		return ErrEmptyKeyword
	}

	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	return appendCSV(s.opts.HistoryFile, []string{normalized, at.UTC().Format(models.TimestampLayout)})
}

// ReadHistory returns every history row in append order. Rows whose
// timestamp does not parse are dropped, which also skips the header.
func (s *FileStore) ReadHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	rows, err := readCSV(s.opts.HistoryFile)
	if err != nil {
		return nil, err
	}

	var entries []models.HistoryEntry
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		ts, err := time.Parse(models.TimestampLayout, row[1])
		if err != nil {
			continue
		}
		entries = append(entries, models.HistoryEntry{Keyword: row[0], Timestamp: ts})
	}
	return entries, nil
}

// AppendRecent adds one row to the recent-searches log and evicts the oldest
// rows beyond maxEntries. The whole read-modify-write runs under the recent
// mutex so concurrent searches cannot lose rows.
func (s *FileStore) AppendRecent(ctx context.Context, keyword string, at time.Time, maxEntries int) error {
	normalized := validation.NormalizeKeyword(keyword)
	if normalized == "" {
		return ErrEmptyKeyword
	}

	s.recentMu.Lock()
	defer s.recentMu.Unlock()

	entries, err := s.readRecentLocked()
	if err != nil {
		return err
	}

	entries = append(entries, models.RecentSearch{Keyword: normalized, Timestamp: at.UTC()})
	if maxEntries > 0 && len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Keyword, e.Timestamp.UTC().Format(models.TimestampLayout)})
	}
	return s.writeCSV(s.opts.RecentFile, []string{"keyword", "timestamp"}, rows)
}

// ReadRecent returns the recent-searches rows in append order.
func (s *FileStore) ReadRecent(ctx context.Context) ([]models.RecentSearch, error) {
	s.recentMu.Lock()
	defer s.recentMu.Unlock()

	return s.readRecentLocked()
}

func (s *FileStore) readRecentLocked() ([]models.RecentSearch, error) {
	rows, err := readCSV(s.opts.RecentFile)
	if err != nil {
		return nil, err
	}

	var entries []models.RecentSearch
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		ts, err := time.Parse(models.TimestampLayout, row[1])
		if err != nil {
			continue
		}
		entries = append(entries, models.RecentSearch{Keyword: row[0], Timestamp: ts})
	}
	return entries, nil
}
