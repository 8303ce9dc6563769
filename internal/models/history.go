package models

import (
	"fmt"
	"time"
)

// TimestampLayout is the second-resolution UTC format used in the history
// and recent-searches CSV files.
const TimestampLayout = "2006-01-02 15:04:05"

// HistoryEntry is one row of the append-only search history log.
type HistoryEntry struct {
	Keyword   string    `json:"keyword"`
	Timestamp time.Time `json:"timestamp"`
}

// RecentSearch is one row of the capped recent-searches log.
type RecentSearch struct {
	Keyword   string    `json:"keyword"`
	Timestamp time.Time `json:"timestamp"`
}

// TimeSince renders the entry's age relative to now, e.g. "42s" or "3m2s".
func (r RecentSearch) TimeSince(now time.Time) string {
	return HumanDuration(now.Sub(r.Timestamp))
}

// HumanDuration formats a duration the way the search lists display ages:
// seconds under a minute ("42s"), minutes with a seconds remainder ("3m2s"
// or "3m"), hours with a minutes remainder ("4h7m" or "4h"), then whole
// days ("2d"). Negative durations render as "0s".
func HumanDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	hours := minutes / 60
	days := seconds / 86400

	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case minutes < 60:
		if seconds%60 != 0 {
			return fmt.Sprintf("%dm%ds", minutes, seconds%60)
		}
		return fmt.Sprintf("%dm", minutes)
	case hours < 24:
		if minutes%60 != 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes%60)
		}
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dd", days)
	}
}
