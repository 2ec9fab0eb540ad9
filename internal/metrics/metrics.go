package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BuzzLyutic/taskify/internal/model"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskify_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskify_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Storage metrics
	TodosTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "taskify_todos",
			Help: "Number of todos by progress state",
		},
		[]string{"state"},
	)

	StorageEphemeral = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskify_storage_ephemeral",
			Help: "Whether todos are kept in a transient in-memory store (1) or a durable one (0)",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(TodosTotal)
	prometheus.MustRegister(StorageEphemeral)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveStats publishes a stats snapshot to the todo gauges.
func ObserveStats(s model.Stats) {
	TodosTotal.WithLabelValues("total").Set(float64(s.Total))
	TodosTotal.WithLabelValues("not_started").Set(float64(s.NotStarted))
	TodosTotal.WithLabelValues("in_progress").Set(float64(s.InProgress))
	TodosTotal.WithLabelValues("completed").Set(float64(s.Completed))
}

func SetEphemeral(ephemeral bool) {
	if ephemeral {
		StorageEphemeral.Set(1)
		return
	}
	StorageEphemeral.Set(0)
}

// Middleware records request count and latency labelled by the matched chi route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
