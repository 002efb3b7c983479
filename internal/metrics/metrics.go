package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TaskOps counts successful task mutations by op (create, check, uncheck, delete).
	TaskOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskboard_tasks_total",
			Help: "Total number of task mutations by operation",
		},
		[]string{"op"},
	)
)

// Task operations.
const (
	OpCreate  = "create"
	OpCheck   = "check"
	OpUncheck = "uncheck"
	OpDelete  = "delete"
)

var (
	// 24-hex ObjectIDs and UUIDs.
	idPathSegment = regexp.MustCompile(`/([0-9a-fA-F]{24}|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})(/|$)`)
	initOnce      sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, TaskOps)
	})
}

// NormalizePath reduces cardinality by replacing id path segments with {id}.
// E.g. /tasks/652f1c0e8b3e4a0012345678 -> /tasks/{id}.
func NormalizePath(path string) string {
	return idPathSegment.ReplaceAllString(path, "/{id}$2")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncTaskOps increments the task mutation counter for op.
func IncTaskOps(op string) {
	TaskOps.WithLabelValues(op).Inc()
}
