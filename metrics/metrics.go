// Package metrics holds the prometheus collectors shared by the adapters,
// the controller and the web server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "league_insights"

var (
	LeagueLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "league_loads_total",
		Help:      "League loads by platform and outcome.",
	}, []string{"platform", "outcome"})

	LoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "league_load_duration_seconds",
		Help:      "Time to load and analyze a league.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"platform"})

	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Requests sent to fantasy providers by response status.",
	}, []string{"platform", "status"})

	WeekFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "week_fetch_failures_total",
		Help:      "Weekly roster or transaction fetches that failed and were skipped.",
	}, []string{"platform", "stage"})

	TradeStrategy = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trade_detection_total",
		Help:      "Which trade detection strategy produced the trades of a load.",
	}, []string{"platform", "strategy"})
)
