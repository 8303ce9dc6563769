package models

import "math"

// Trend direction constants for popular searches.
const (
	TrendUp       = "up"
	TrendDown     = "down"
	TrendNoChange = "no_change"
)

// TrendBetween compares yesterday's count against the day before and returns
// the rounded percentage change plus a trend direction. A zero baseline maps
// to 100% when anything was counted yesterday and 0% otherwise.
func TrendBetween(yesterday, dayBefore int64) (percent int, trend string) {
	if dayBefore == 0 {
		if yesterday > 0 {
			percent = 100
		}
	} else {
		percent = int(math.Round(float64(yesterday-dayBefore) / float64(dayBefore) * 100))
	}

	switch {
	case yesterday > dayBefore:
		trend = TrendUp
	case yesterday < dayBefore:
		trend = TrendDown
	default:
		trend = TrendNoChange
	}
	return percent, trend
}
