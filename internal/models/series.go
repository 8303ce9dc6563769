package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the day format used in series CSV files and JSON payloads.
const DateLayout = "2006-01-02"

// SeriesPoint is one day of mention counts for a keyword.
type SeriesPoint struct {
	Date  time.Time
	Count int64
}

// MarshalJSON emits the point as {"date": "2006-01-02", "count": n},
// the shape the chart frontend consumes.
func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}{
		Date:  p.Date.Format(DateLayout),
		Count: p.Count,
	})
}

// UnmarshalJSON parses the day-formatted wire shape back into a point.
func (p *SeriesPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date  string `json:"date"`
		Count int64  `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return err
	}
	p.Date = date
	p.Count = raw.Count
	return nil
}

// Series is the per-day mention-count time series for one searched keyword.
// Points are ordered oldest first and cover whatever window the counts API
// returned for the search.
type Series struct {
	Keyword string        `json:"keyword"`
	Points  []SeriesPoint `json:"points"`
}

// Total sums the counts across the whole window.
func (s Series) Total() int64 {
	var total int64
	for _, p := range s.Points {
		total += p.Count
	}
	return total
}

// CountOn returns the count recorded for the given calendar day (UTC),
// or 0 if the series has no point for that day.
func (s Series) CountOn(day time.Time) int64 {
	y, m, d := day.UTC().Date()
	for _, p := range s.Points {
		py, pm, pd := p.Date.UTC().Date()
		if py == y && pm == m && pd == d {
			return p.Count
		}
	}
	return 0
}

// LastTwoDays returns the counts for yesterday and the day before,
// relative to now. Days with no data count as 0.
func (s Series) LastTwoDays(now time.Time) (yesterday, dayBefore int64) {
	today := now.UTC().Truncate(24 * time.Hour)
	return s.CountOn(today.AddDate(0, 0, -1)), s.CountOn(today.AddDate(0, 0, -2))
}
