// Package observability exposes pipeline metrics on /metrics.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PipelineRuns counts finished pipeline runs by terminal status.
	PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Finished pipeline runs by terminal status",
		},
		[]string{"status"},
	)
	// PagesScraped counts successfully harvested listing pages.
	PagesScraped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_pages_scraped_total",
			Help: "Successfully harvested listing pages",
		},
	)
	// PagesFailed counts listing pages skipped after fetch failures.
	PagesFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_pages_failed_total",
			Help: "Listing pages skipped after fetch failures",
		},
	)
	// SnapshotProducts is the product count of the last clean snapshot.
	SnapshotProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clean_snapshot_products",
			Help: "Products in the last written clean snapshot",
		},
	)
)

func init() {
	prometheus.MustRegister(PipelineRuns, PagesScraped, PagesFailed, SnapshotProducts)
}

// Handler returns the metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
