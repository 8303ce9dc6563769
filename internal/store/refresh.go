package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"buzzboard/internal/validation"
)

// RefreshTimeLayout is the timestamp format inside last_refresh.json.
const RefreshTimeLayout = "2006-01-02T15:04:05"

type refreshFile struct {
	LastRefresh map[string]string `json:"last_refresh"`
}

// LastRefresh returns when the keyword's series was last fetched, or the zero
// time if it never was.
func (s *FileStore) LastRefresh(ctx context.Context, keyword string) (time.Time, error) {
	normalized := validation.NormalizeKeyword(keyword)

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	times, err := s.readRefreshLocked()
	if err != nil {
		return time.Time{}, err
	}
	return times[normalized], nil
}

// SetLastRefresh records a fetch time for the keyword.
func (s *FileStore) SetLastRefresh(ctx context.Context, keyword string, at time.Time) error {
	normalized := validation.NormalizeKeyword(keyword)
	if normalized == "" {
		return ErrEmptyKeyword
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	times, err := s.readRefreshLocked()
	if err != nil {
		return err
	}
	times[normalized] = at.UTC()

	out := refreshFile{LastRefresh: make(map[string]string, len(times))}
	for kw, t := range times {
		out.LastRefresh[kw] = t.Format(RefreshTimeLayout)
	}
	return s.writeAtomic(s.opts.RefreshFile, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(out)
	})
}

// RefreshTimes returns the keyword -> last fetch time map.
func (s *FileStore) RefreshTimes(ctx context.Context) (map[string]time.Time, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	return s.readRefreshLocked()
}

// readRefreshLocked loads the refresh file. A missing file reads as an empty
// map; entries whose timestamp does not parse are dropped.
func (s *FileStore) readRefreshLocked() (map[string]time.Time, error) {
	data, err := os.ReadFile(s.opts.RefreshFile)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]time.Time{}, nil
		}
		return nil, fmt.Errorf("failed to read refresh times: %w", err)
	}

	var raw refreshFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse refresh times: %w", err)
	}

	times := make(map[string]time.Time, len(raw.LastRefresh))
	for kw, value := range raw.LastRefresh {
		t, err := time.Parse(RefreshTimeLayout, value)
		if err != nil {
			continue
		}
		times[kw] = t
	}
	return times, nil
}
