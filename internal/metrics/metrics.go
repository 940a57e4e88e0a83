package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, route, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, route, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginAttempts counts login attempts by result (success, failure, invalid).
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visco_login_attempts_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// Registrations counts registration attempts by result (success, invalid, conflict, error).
	Registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visco_registrations_total",
			Help: "Total number of registration attempts by result",
		},
		[]string{"result"},
	)

	// ClientRecords counts record operations by op (create, list, delete).
	ClientRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visco_client_records_total",
			Help: "Total number of client record operations",
		},
		[]string{"op"},
	)

	DecryptionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "visco_decryption_failures_total",
			Help: "Stored records that could not be decrypted",
		},
	)
)

var initOnce sync.Once

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LoginAttempts, Registrations, ClientRecords, DecryptionFailures)
	})
}

// RecordRequest records duration and count for an HTTP request. route should be the
// matched route pattern (e.g. /api/client/data/{id}) so ids do not blow up cardinality.
func RecordRequest(method, route string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, route, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, route, status).Inc()
}

func IncLogin(result string) {
	LoginAttempts.WithLabelValues(result).Inc()
}

func IncRegistration(result string) {
	Registrations.WithLabelValues(result).Inc()
}

func IncRecordOp(op string) {
	ClientRecords.WithLabelValues(op).Inc()
}

func IncDecryptionFailure() {
	DecryptionFailures.Inc()
}
