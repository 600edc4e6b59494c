package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersDecidedTotal *prometheus.CounterVec
	ReviewsCreatedTotal   *prometheus.CounterVec
	AuditWriteFailures    prometheus.Counter
	DocumentsUploaded     prometheus.Counter
	EventsConsumedTotal   *prometheus.CounterVec
	EventsPublishedTotal  *prometheus.CounterVec
}

const (
	TriggerApproval   = "approval"
	TriggerBackfill   = "backfill"
	TriggerCompletion = "completion"
)

const (
	OutcomeAcked     = "acked"
	OutcomeRequeued  = "requeued"
	OutcomeDiscarded = "discarded"

	OutcomeConfirmed = "confirmed"
	OutcomeNacked    = "nacked"
	OutcomeFailed    = "failed"
)

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status_code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kyc_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		CustomersDecidedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyc_customers_decided_total",
				Help: "Total number of customer applications approved or rejected.",
			},
			[]string{"decision"},
		),
		ReviewsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyc_reviews_created_total",
				Help: "Total number of compliance reviews scheduled.",
			},
			[]string{"trigger"},
		),
		AuditWriteFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kyc_audit_write_failures_total",
				Help: "Total number of audit records that could not be persisted.",
			},
		),
		DocumentsUploaded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kyc_documents_uploaded_total",
				Help: "Total number of customer documents stored.",
			},
		),
		EventsConsumedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyc_events_consumed_total",
				Help: "Total number of domain events consumed from RabbitMQ, by outcome.",
			},
			[]string{"routing_key", "outcome"},
		),
		EventsPublishedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kyc_events_published_total",
				Help: "Total number of domain events published to RabbitMQ, by broker confirmation outcome.",
			},
			[]string{"routing_key", "outcome"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordDecision(decision string) {
	Business.CustomersDecidedTotal.WithLabelValues(decision).Inc()
}

func RecordReviewsCreated(trigger string, n int) {
	if n <= 0 {
		return
	}
	Business.ReviewsCreatedTotal.WithLabelValues(trigger).Add(float64(n))
}

func RecordAuditWriteFailure() {
	Business.AuditWriteFailures.Inc()
}

func RecordDocumentUploaded() {
	Business.DocumentsUploaded.Inc()
}

func RecordEventConsumed(routingKey, outcome string) {
	Business.EventsConsumedTotal.WithLabelValues(routingKey, outcome).Inc()
}

func RecordEventPublished(routingKey, outcome string) {
	Business.EventsPublishedTotal.WithLabelValues(routingKey, outcome).Inc()
}
