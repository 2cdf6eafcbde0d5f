package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by path/method/code.",
		},
		[]string{"path", "method", "code"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests by path/method/code.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "code"},
	)

	instanceCreations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meeting_instance_creations_total",
			Help: "Meeting instances created, by trigger (lazy resolve vs explicit next).",
		},
		[]string{"trigger", "result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, instanceCreations)
}

// ObserveInstanceCreation records one instance-creation attempt.
// trigger is "resolve" or "next"; result is "created", "existing" or
// "error".
func ObserveInstanceCreation(trigger, result string) {
	instanceCreations.WithLabelValues(trigger, result).Inc()
}

// Handler serves the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latencies labeled by the mux
// route template, so path cardinality stays bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		code := strconv.Itoa(rec.status)
		httpRequests.WithLabelValues(path, r.Method, code).Inc()
		httpDuration.WithLabelValues(path, r.Method, code).Observe(time.Since(start).Seconds())
	})
}
