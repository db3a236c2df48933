// Package metrics declares the Prometheus collectors of the uaparser service.
// They register with the default registry on import, and Handler exposes them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Classifications counts classified User-Agent strings by the layer that
	// answered them.
	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uaparser_classifications_total",
			Help: "Total number of classified user agent strings",
		},
		[]string{"source"},
	)

	// FamilyMatches counts per-family outcomes of the pattern engine.
	FamilyMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uaparser_family_matches_total",
			Help: "Pattern engine results per family",
		},
		[]string{"family", "result"},
	)

	// MatchErrors counts regex engine failures such as match timeouts.
	MatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uaparser_match_errors_total",
			Help: "Regex engine failures during matching, treated as no match",
		},
		[]string{"family"},
	)

	// ParseDuration tracks time spent in the pattern engine for one string.
	ParseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "uaparser_parse_duration_seconds",
			Help:    "Pattern engine duration for a single user agent string",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)

	// PatternReloads counts reload attempts of the pattern definitions.
	PatternReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uaparser_pattern_reloads_total",
			Help: "Pattern definition reload attempts",
		},
		[]string{"result"},
	)

	// PatternsLoaded reports compiled matchers per family of the active parser.
	PatternsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "uaparser_patterns_loaded",
			Help: "Number of compiled patterns per family",
		},
		[]string{"family"},
	)
)

// Label values
const (
	SourceLRU    = "lru"
	SourceStore  = "store"
	SourceParser = "parser"

	ResultHit     = "hit"
	ResultDefault = "default"

	ReloadSuccess   = "success"
	ReloadFailure   = "failure"
	ReloadUnchanged = "unchanged"
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
