// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Fetch metrics
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "km77_pages_fetched_total",
		Help: "Pages fetched by outcome",
	}, []string{"outcome"}) // outcome=success|error|cached

	fetchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "km77_fetch_duration_seconds",
		Help:    "Time spent fetching a single page",
		Buckets: prometheus.DefBuckets,
	})

	parseFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "km77_parse_failures_total",
		Help: "Page parse failures by stage",
	}, []string{"stage"}) // stage=makes|models|trims|specs

	// Scrape pipeline metrics
	scrapeStageDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "km77_scrape_stage_duration_seconds",
		Help:    "Time spent per scrape stage",
		Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
	}, []string{"stage"})

	scrapeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "km77_scrape_failures_total",
		Help: "Scrape job failures by stage",
	}, []string{"stage"})

	lintFindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "km77_lint_findings_total",
		Help: "Record lint findings by linter",
	}, []string{"linter"})

	actionRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "km77_action_runs_total",
		Help: "Lifecycle action executions by action and outcome",
	}, []string{"action", "outcome"}) // outcome=success|failure

	// Catalog gauges (last completed scrape)
	catalogMakes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "km77_catalog_makes",
		Help: "Makes in the catalog after the last scrape",
	})
	catalogModels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "km77_catalog_models",
		Help: "Models in the catalog after the last scrape",
	})
	catalogTrims = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "km77_catalog_trims",
		Help: "Trims in the catalog after the last scrape",
	})

	// Cache metrics
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "km77_page_cache_hits_total",
		Help: "Page cache hits",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "km77_page_cache_misses_total",
		Help: "Page cache misses",
	})

	// Manifest metrics
	manifestValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "km77_manifest_validation_errors_total",
		Help: "Manifest validation failures",
	})
)

func IncPageFetched(outcome string)       { pagesFetchedTotal.WithLabelValues(outcome).Inc() }
func ObserveFetchDuration(secs float64)   { fetchDurationSeconds.Observe(secs) }
func IncParseFailure(stage string)        { parseFailuresTotal.WithLabelValues(stage).Inc() }
func IncScrapeFailure(stage string)       { scrapeFailuresTotal.WithLabelValues(stage).Inc() }
func IncLintFinding(linter string)        { lintFindingsTotal.WithLabelValues(linter).Inc() }
func IncManifestValidationError()         { manifestValidationErrors.Inc() }

func ObserveStageDuration(stage string, secs float64) {
	scrapeStageDurationSeconds.WithLabelValues(stage).Observe(secs)
}

func IncActionRun(action string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	actionRunsTotal.WithLabelValues(action, outcome).Inc()
}

func RecordCatalogCounts(makes, models, trims int) {
	catalogMakes.Set(float64(makes))
	catalogModels.Set(float64(models))
	catalogTrims.Set(float64(trims))
}

func RecordCacheHit(hit bool) {
	if hit {
		cacheHitsTotal.Inc()
	} else {
		cacheMissesTotal.Inc()
	}
}
