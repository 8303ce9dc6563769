package models

// Suggestion is one autocomplete candidate ranked by how often the keyword
// appears in the search history.
type Suggestion struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
	Rank    int    `json:"rank"`
}

// PopularSearch is a history keyword enriched with its day-over-day trend
// for the popular-searches listing.
type PopularSearch struct {
	Keyword       string `json:"keyword"`
	Count         int64  `json:"count"`
	PercentChange int    `json:"percent_change"`
	Trend         string `json:"trend"`
}
