package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate by method, route template and status class.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight.
	HTTPRequestsInFlight prometheus.Gauge

	// Report renders by scope. Every page load and API call recomputes the report.
	ReportRendersTotal *prometheus.CounterVec

	// Time spent filtering and aggregating one report.
	ReportRenderDuration prometheus.Histogram

	// Rows handed to the aggregators on the last render.
	ReportTableRows prometheus.Gauge

	// Chart renders by chart name and result.
	ChartRendersTotal *prometheus.CounterVec

	// Chart PNG encode latency by chart name.
	ChartRenderDuration *prometheus.HistogramVec

	// Rejected date range selections by reason.
	InvalidRangeTotal *prometheus.CounterVec
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	ReportRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reportRendersTotal",
			Help: "Total number of report renders",
		},
		[]string{"scope"},
	)
	ReportRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reportRenderDurationSeconds",
			Help:    "Time spent filtering and aggregating one report",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)
	ReportTableRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reportTableRows",
			Help: "Rows handed to the aggregators on the last render",
		},
	)
	ChartRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chartRendersTotal",
			Help: "Total number of chart renders",
		},
		[]string{"chart", "status"},
	)
	ChartRenderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chartRenderDurationSeconds",
			Help:    "Chart PNG render latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chart"},
	)
	InvalidRangeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invalidRangeTotal",
			Help: "Rejected date range selections",
		},
		[]string{"reason"},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		ReportRendersTotal, ReportRenderDuration, ReportTableRows,
		ChartRendersTotal, ChartRenderDuration,
		InvalidRangeTotal,
	)
}

// RecordReport records one report render.
func RecordReport(scope string, tableRows int, d time.Duration) {
	ReportRendersTotal.WithLabelValues(scope).Inc()
	ReportRenderDuration.Observe(d.Seconds())
	ReportTableRows.Set(float64(tableRows))
}

// RecordChart records one chart render. A non-nil err counts as an error.
func RecordChart(chart string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ChartRendersTotal.WithLabelValues(chart, status).Inc()
	ChartRenderDuration.WithLabelValues(chart).Observe(d.Seconds())
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
