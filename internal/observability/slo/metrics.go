// Package slo tracks the freshness objectives of the news pipeline.
package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Objectives for a refresh run.
const (
	// LiveCoverageSLO is the target share of categories served from live data (6 of 8).
	LiveCoverageSLO = 0.75

	// LinkValidSLO is the target share of live candidates whose link passes validation.
	LinkValidSLO = 0.30
)

var (
	// SLOLiveCoverage is the share of categories served live by the last refresh.
	SLOLiveCoverage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_live_coverage_ratio",
			Help: "Share of categories served from live data by the last refresh (0-1), target: 0.75",
		},
	)

	// SLOLinkValid is the share of validated candidates that passed in the last refresh.
	SLOLinkValid = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_link_valid_ratio",
			Help: "Share of live candidates with a valid link in the last refresh (0-1), target: 0.30",
		},
	)

	// SLOLastRefresh is the Unix time of the last completed refresh.
	SLOLastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_last_refresh_timestamp",
			Help: "Unix timestamp of the last completed refresh",
		},
	)
)

// ObserveRefresh records the outcome of one refresh run.
//
// Parameters:
//   - live: categories served from live data
//   - categories: categories refreshed
//   - valid: candidates whose link passed validation
//   - candidates: candidates validated
//
// A ratio whose denominator is zero is left unchanged: a refresh with no
// credential validates nothing and says nothing about link quality.
func ObserveRefresh(live, categories, valid, candidates int) {
	if categories > 0 {
		SLOLiveCoverage.Set(float64(live) / float64(categories))
	}
	if candidates > 0 {
		SLOLinkValid.Set(float64(valid) / float64(candidates))
	}
	SLOLastRefresh.SetToCurrentTime()
}

// MeetsLiveCoverage reports whether a refresh met LiveCoverageSLO.
func MeetsLiveCoverage(live, categories int) bool {
	if categories == 0 {
		return false
	}
	return float64(live)/float64(categories) >= LiveCoverageSLO
}
