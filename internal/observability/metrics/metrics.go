package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal       metric.Int64Counter
	HTTPRequestDuration     metric.Float64Histogram
	SuggestionRequestsTotal metric.Int64Counter
	SuggestionFailuresTotal metric.Int64Counter
	CompletionCallDuration  metric.Float64Histogram
	TripSweepUpdatesTotal   metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, reading the
// Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("tripforge")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.SuggestionRequestsTotal, err = meter.Int64Counter(
			"suggestion_requests_total",
			metric.WithDescription("Total number of AI suggestion requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create suggestion_requests_total: %v", err)
		}

		m.SuggestionFailuresTotal, err = meter.Int64Counter(
			"suggestion_failures_total",
			metric.WithDescription("AI suggestion requests that ended in a gateway or payload failure"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create suggestion_failures_total: %v", err)
		}

		m.CompletionCallDuration, err = meter.Float64Histogram(
			"completion_call_duration_seconds",
			metric.WithDescription("Duration of outbound completion API calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create completion_call_duration_seconds: %v", err)
		}

		m.TripSweepUpdatesTotal, err = meter.Int64Counter(
			"trip_sweep_updates_total",
			metric.WithDescription("Trips promoted to COMPLETED by the background sweep"),
			metric.WithUnit("{trip}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_sweep_updates_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global metrics instance. InitAppMetrics must run first.
func Get() *AppMetrics {
	return appMetrics
}
