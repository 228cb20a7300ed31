package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fleetwire"

var (
	// HTTP metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// Outbound webhooks
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_published_total",
			Help:      "Total events accepted for delivery",
		},
		[]string{"tenant", "type"},
	)

	webhookAttemptsQueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_attempts_queued_total",
			Help:      "Total delivery attempts queued, first attempts and retries",
		},
		[]string{"endpoint", "kind"},
	)

	webhookDeliveryAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_delivery_attempts_total",
			Help:      "Total webhook delivery attempts by outcome",
		},
		[]string{"endpoint", "status"},
	)

	webhookDeliveryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "webhook_delivery_duration_seconds",
			Help:      "Webhook delivery duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	webhookExhausted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_exhausted_total",
			Help:      "Event/endpoint pairs that ran out of attempts",
		},
		[]string{"endpoint"},
	)

	// Inbound provider webhooks
	inboundWebhooks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_webhooks_total",
			Help:      "Incoming provider webhooks by verification result",
		},
		[]string{"provider", "result"},
	)

	prunedRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retention_pruned_rows_total",
			Help:      "Rows removed by the retention pruner",
		},
		[]string{"table"},
	)

	registry *prometheus.Registry
)

// Init initializes the metrics registry and returns the handler.
// If goMetrics is true, Go runtime metrics are included.
func Init(goMetrics bool) http.Handler {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		eventsPublished,
		webhookAttemptsQueued,
		webhookDeliveryAttempts,
		webhookDeliveryDuration,
		webhookExhausted,
		inboundWebhooks,
		prunedRows,
	)

	if goMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		Registry: registry,
	})
}

func recordHTTPRequest(method, path, statusCode string, duration float64) {
	httpRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	httpRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
}

// RecordEventPublished counts an event accepted for delivery.
func RecordEventPublished(tenant, eventType string) {
	eventsPublished.WithLabelValues(tenant, eventType).Inc()
}

// RecordAttemptQueued counts a queued attempt; retry distinguishes backoff
// reschedules from first attempts.
func RecordAttemptQueued(endpoint string, retry bool) {
	kind := "first"
	if retry {
		kind = "retry"
	}
	webhookAttemptsQueued.WithLabelValues(endpoint, kind).Inc()
}

// RecordWebhookDelivery records the outcome of one delivery attempt.
func RecordWebhookDelivery(endpoint, status string, duration time.Duration) {
	webhookDeliveryAttempts.WithLabelValues(endpoint, status).Inc()
	webhookDeliveryDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordExhausted counts a pair marked terminally failed.
func RecordExhausted(endpoint string) {
	webhookExhausted.WithLabelValues(endpoint).Inc()
}

// RecordInbound counts an incoming provider webhook by result
// (accepted, duplicate, invalid, error).
func RecordInbound(provider, result string) {
	inboundWebhooks.WithLabelValues(provider, result).Inc()
}

// RecordPruned counts rows removed by retention.
func RecordPruned(table string, rows int64) {
	prunedRows.WithLabelValues(table).Add(float64(rows))
}
