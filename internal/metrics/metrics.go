package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"buzzboard/internal/store"
)

var (
	keywordSearchDesc = prometheus.NewDesc(
		"buzzboard_keyword_searches_total",
		"Total completed searches per keyword, derived from the history log",
		[]string{"keyword"},
		nil,
	)
	walletPointsDesc = prometheus.NewDesc(
		"buzzboard_wallet_points",
		"Current points balance per wallet",
		[]string{"wallet_address"},
		nil,
	)

	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buzzboard_searches_total",
			Help: "Search attempts by outcome",
		},
		[]string{"outcome"},
	)
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buzzboard_upstream_requests_total",
			Help: "Counts API requests by result",
		},
		[]string{"result"},
	)
)

// Search outcomes for RecordSearch.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeUpstream   = "upstream_error"
	OutcomeStorage    = "storage_error"
)

// StoreCollector is a custom Prometheus collector that reads keyword search
// counts and wallet balances from the store on each scrape.
type StoreCollector struct {
	store store.Store
}

// Describe sends the metric descriptors to the channel.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- keywordSearchDesc
	ch <- walletPointsDesc
}

// Collect reads the history log and the points ledger and emits them as
// per-keyword counters and per-wallet gauges.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	entries, err := c.store.ReadHistory(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("failed to collect keyword search metrics")
	} else {
		counts := make(map[string]int64, len(entries))
		for _, e := range entries {
			counts[e.Keyword]++
		}
		for kw, n := range counts {
			ch <- prometheus.MustNewConstMetric(keywordSearchDesc, prometheus.CounterValue, float64(n), kw)
		}
	}

	accounts, err := c.store.AllPoints(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("failed to collect wallet point metrics")
		return
	}
	for _, a := range accounts {
		ch <- prometheus.MustNewConstMetric(walletPointsDesc, prometheus.GaugeValue, float64(a.Points), a.Address)
	}
}

var initOnce sync.Once

// Init registers the store-backed collector and the outcome counters.
// Must be called once at startup.
func Init(s store.Store) {
	initOnce.Do(func() {
		prometheus.MustRegister(&StoreCollector{store: s})
		prometheus.MustRegister(searchesTotal, upstreamRequests)
	})
}

// RecordSearch counts one search attempt by outcome. Safe to call before
// Init; unregistered counters still accept increments.
func RecordSearch(outcome string) {
	searchesTotal.WithLabelValues(outcome).Inc()
}

// RecordUpstream counts one counts API request by result ("ok" or "error").
func RecordUpstream(result string) {
	upstreamRequests.WithLabelValues(result).Inc()
}
