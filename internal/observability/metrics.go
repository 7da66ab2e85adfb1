package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the weather view service.
type Metrics struct {
	Lookups          *prometheus.CounterVec // labels: trigger={mount,search,locate,language}, outcome={success,failure,stale}
	LookupDuration   prometheus.Histogram
	StaleCompletions prometheus.Counter
	InputErrors      prometheus.Counter
	LocationErrors   *prometheus.CounterVec // labels: trigger={mount,locate}
	SessionsActive   prometheus.Gauge

	// Provider metrics.
	ProviderRequests *prometheus.CounterVec // labels: outcome={success,not_found,http_4xx,http_5xx,transport,malformed}
	ProviderDuration prometheus.Histogram

	// Lookup event publishing metrics.
	EventsPublished  prometheus.Counter
	EventsDropped    *prometheus.CounterVec // labels: reason={buffer_full,write_failed}
	PublisherRunning prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_view",
			Name:      "lookups_total",
			Help:      "Completed forecast lookups by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_view",
			Name:      "lookup_duration_seconds",
			Help:      "Time from issuing a lookup to its completion.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StaleCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_view",
			Name:      "stale_completions_total",
			Help:      "Lookup completions discarded because a later lookup was issued.",
		}),
		InputErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_view",
			Name:      "input_errors_total",
			Help:      "Searches rejected locally for empty input.",
		}),
		LocationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_view",
			Name:      "location_errors_total",
			Help:      "Device geolocation failures by trigger.",
		}, []string{"trigger"}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_view",
			Name:      "sessions_active",
			Help:      "Browser sessions currently held in memory.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_view",
			Name:      "provider_requests_total",
			Help:      "WeatherAPI forecast requests by outcome.",
		}, []string{"outcome"}),
		ProviderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_view",
			Name:      "provider_request_duration_seconds",
			Help:      "WeatherAPI forecast request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_view",
			Name:      "lookup_events_published_total",
			Help:      "Lookup events written to Kafka.",
		}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_view",
			Name:      "lookup_events_dropped_total",
			Help:      "Lookup events dropped before reaching Kafka.",
		}, []string{"reason"}),
		PublisherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_view",
			Name:      "lookup_publisher_running",
			Help:      "1 when the lookup event publisher is active, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.Lookups,
		m.LookupDuration,
		m.StaleCompletions,
		m.InputErrors,
		m.LocationErrors,
		m.SessionsActive,
		m.ProviderRequests,
		m.ProviderDuration,
		m.EventsPublished,
		m.EventsDropped,
		m.PublisherRunning,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Lookups:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_view", Name: "lookups_total"}, []string{"trigger", "outcome"}),
		LookupDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_view", Name: "lookup_duration_seconds"}),
		StaleCompletions: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_view", Name: "stale_completions_total"}),
		InputErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_view", Name: "input_errors_total"}),
		LocationErrors:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_view", Name: "location_errors_total"}, []string{"trigger"}),
		SessionsActive:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_view", Name: "sessions_active"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_view", Name: "provider_requests_total"}, []string{"outcome"}),
		ProviderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_view", Name: "provider_request_duration_seconds"}),
		EventsPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_view", Name: "lookup_events_published_total"}),
		EventsDropped:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_view", Name: "lookup_events_dropped_total"}, []string{"reason"}),
		PublisherRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_view", Name: "lookup_publisher_running"}),
	}
}
