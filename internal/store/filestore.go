package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
)

// Options configures the file layout of a FileStore. Empty fields fall back
// to the conventional names.
type Options struct {
	DataDir     string // Directory for per-keyword series CSVs
	HistoryFile string // Append-only search history CSV
	RecentFile  string // Capped recent-searches CSV
	AccountDir  string // Directory for the wallet registry and points ledger
	PointsFile  string // Ledger CSV name inside AccountDir
	WalletsFile string // Registry CSV name inside AccountDir
	RefreshFile string // JSON file of keyword -> last fetch time
}

func (o *Options) applyDefaults() {
	if o.DataDir == "" {
		o.DataDir = "data"
	}
	if o.HistoryFile == "" {
		o.HistoryFile = "search_history.csv"
	}
	if o.RecentFile == "" {
		o.RecentFile = "recent_searches.csv"
	}
	if o.AccountDir == "" {
		o.AccountDir = "account-list"
	}
	if o.PointsFile == "" {
		o.PointsFile = "points.csv"
	}
	if o.WalletsFile == "" {
		o.WalletsFile = "wallets.csv"
	}
	if o.RefreshFile == "" {
		o.RefreshFile = "last_refresh.json"
	}
}

// FileStore persists everything as flat CSV and JSON files. Each backing
// file has its own mutex held across the whole read-modify-write cycle, so
// concurrent requests cannot lose updates to a shared file.
type FileStore struct {
	opts Options

	historyMu sync.Mutex
	recentMu  sync.Mutex
	walletsMu sync.Mutex
	pointsMu  sync.Mutex
	refreshMu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the data directories and seeds the log, ledger, and
// refresh files with their headers when they do not exist yet.
func NewFileStore(opts Options) (*FileStore, error) {
	opts.applyDefaults()
	s := &FileStore{opts: opts}

	for _, dir := range []string{opts.DataDir, opts.AccountDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	seeds := []struct {
		path   string
		header []string
	}{
		{opts.HistoryFile, []string{"keyword", "timestamp"}},
		{opts.RecentFile, []string{"keyword", "timestamp"}},
		{s.pointsPath(), []string{"wallet_address", "points"}},
		{s.walletsPath(), []string{"wallet_address", "connected_at"}},
	}
	for _, seed := range seeds {
		if err := ensureCSV(seed.path, seed.header); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(opts.RefreshFile); os.IsNotExist(err) {
		if err := s.writeAtomic(opts.RefreshFile, func(w io.Writer) error {
			_, err := w.Write([]byte(`{"last_refresh": {}}`))
			return err
		}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Ping reports whether the store's directories are still reachable.
func (s *FileStore) Ping(ctx context.Context) error {
	for _, dir := range []string{s.opts.DataDir, s.opts.AccountDir} {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("failed to stat %s: %w", dir, err)
		}
	}
	return nil
}

func (s *FileStore) pointsPath() string {
	return filepath.Join(s.opts.AccountDir, s.opts.PointsFile)
}

func (s *FileStore) walletsPath() string {
	return filepath.Join(s.opts.AccountDir, s.opts.WalletsFile)
}

// writeAtomic writes through a uniquely named temp file and renames it over
// the target, so readers never observe a partially written file and a failed
// write leaves the previous contents intact.
func (s *FileStore) writeAtomic(path string, write func(io.Writer) error) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close temp file for %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeCSV atomically rewrites a CSV file with a header row.
func (s *FileStore) writeCSV(path string, header []string, rows [][]string) error {
	return s.writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// readCSV returns all rows of a CSV file, header included. A missing file
// reads as no rows. Row parsing and header skipping are the caller's concern:
// callers drop rows whose fields fail to parse, which uniformly covers the
// header row.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// appendCSV appends a single row, creating the file if it vanished.
func appendCSV(path string, row []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", filepath.Base(path), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ensureCSV creates a CSV file with just its header when it does not exist.
func ensureCSV(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", filepath.Base(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header to %s: %w", filepath.Base(path), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header to %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// safeName maps a normalized keyword onto a filesystem-safe file stem.
// Letters, digits, spaces, underscores, and hyphens pass through; every
// other rune becomes an underscore.
func safeName(keyword string) string {
	var b strings.Builder
	b.Grow(len(keyword))
	for _, r := range keyword {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
