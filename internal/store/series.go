package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"buzzboard/internal/models"
	"buzzboard/internal/validation"
)

func (s *FileStore) seriesPath(keyword string) string {
	return filepath.Join(s.opts.DataDir, safeName(keyword)+".csv")
}

// SaveSeries overwrites the keyword's series file. Last write wins.
func (s *FileStore) SaveSeries(ctx context.Context, series models.Series) error {
	keyword := validation.NormalizeKeyword(series.Keyword)
	if keyword == "" {
		return ErrEmptyKeyword
	}

	return s.writeAtomic(s.seriesPath(keyword), func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"date", "count"}); err != nil {
			return err
		}
		for _, p := range series.Points {
			row := []string{p.Date.UTC().Format(models.DateLayout), strconv.FormatInt(p.Count, 10)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// LoadSeries reads the keyword's series file. Rows that do not parse as a
// date and count are dropped, which also skips the header.
func (s *FileStore) LoadSeries(ctx context.Context, keyword string) (models.Series, error) {
	normalized := validation.NormalizeKeyword(keyword)
	if normalized == "" {
		return models.Series{}, ErrEmptyKeyword
	}

	f, err := os.Open(s.seriesPath(normalized))
	if err != nil {
		if os.IsNotExist(err) {
			return models.Series{}, ErrSeriesNotFound
		}
		return models.Series{}, fmt.Errorf("failed to open series for %q: %w", normalized, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return models.Series{}, fmt.Errorf("failed to parse series for %q: %w", normalized, err)
	}

	series := models.Series{Keyword: normalized}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		date, err := time.Parse(models.DateLayout, row[0])
		if err != nil {
			continue
		}
		count, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			continue
		}
		series.Points = append(series.Points, models.SeriesPoint{Date: date, Count: count})
	}
	return series, nil
}
