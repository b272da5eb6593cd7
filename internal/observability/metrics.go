package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis service.
type Metrics struct {
	DatasetsAnalyzed  prometheus.Counter
	RecordsProcessed  prometheus.Counter
	AnomaliesDetected prometheus.Counter
	IngestErrors      prometheus.Counter
	AnalysisDuration  prometheus.Histogram

	// Live-reading metrics.
	LiveFetchRequests   *prometheus.CounterVec // labels: outcome={success,error}
	LiveFetchDuration   prometheus.Histogram
	LiveCache           *prometheus.CounterVec // labels: result={hit,miss}
	LiveClassifications *prometheus.CounterVec // labels: status={normal,anomalous,indeterminate}
	WeatherEnabled      prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temp_analytics",
			Name:      "datasets_analyzed_total",
			Help:      "Total uploaded datasets that completed the analysis pipeline.",
		}),
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temp_analytics",
			Name:      "records_processed_total",
			Help:      "Total temperature records run through the pipeline.",
		}),
		AnomaliesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temp_analytics",
			Name:      "anomalies_detected_total",
			Help:      "Total records flagged as statistical anomalies.",
		}),
		IngestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temp_analytics",
			Name:      "ingest_errors_total",
			Help:      "Total uploads rejected for malformed CSV input.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "temp_analytics",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete smooth-aggregate-detect pipeline run.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		LiveFetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "temp_analytics",
			Name:      "live_fetch_requests_total",
			Help:      "Live weather fetches by outcome.",
		}, []string{"outcome"}),
		LiveFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "temp_analytics",
			Name:      "live_fetch_duration_seconds",
			Help:      "OpenWeatherMap request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		LiveCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "temp_analytics",
			Name:      "live_cache_total",
			Help:      "Live-reading cache lookups by result.",
		}, []string{"result"}),
		LiveClassifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "temp_analytics",
			Name:      "live_classifications_total",
			Help:      "Live readings classified, by resulting status.",
		}, []string{"status"}),
		WeatherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "temp_analytics",
			Name:      "weather_enabled",
			Help:      "1 when the OpenWeatherMap integration is configured, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.DatasetsAnalyzed,
		m.RecordsProcessed,
		m.AnomaliesDetected,
		m.IngestErrors,
		m.AnalysisDuration,
		m.LiveFetchRequests,
		m.LiveFetchDuration,
		m.LiveCache,
		m.LiveClassifications,
		m.WeatherEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetsAnalyzed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "temp_analytics", Name: "datasets_analyzed_total"}),
		RecordsProcessed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "temp_analytics", Name: "records_processed_total"}),
		AnomaliesDetected:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "temp_analytics", Name: "anomalies_detected_total"}),
		IngestErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "temp_analytics", Name: "ingest_errors_total"}),
		AnalysisDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "temp_analytics", Name: "analysis_duration_seconds"}),
		LiveFetchRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "temp_analytics", Name: "live_fetch_requests_total"}, []string{"outcome"}),
		LiveFetchDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "temp_analytics", Name: "live_fetch_duration_seconds"}),
		LiveCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "temp_analytics", Name: "live_cache_total"}, []string{"result"}),
		LiveClassifications: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "temp_analytics", Name: "live_classifications_total"}, []string{"status"}),
		WeatherEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "temp_analytics", Name: "weather_enabled"}),
	}
}
