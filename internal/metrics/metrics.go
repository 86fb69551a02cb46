// Package metrics provides Prometheus instrumentation for moviescope.
//
//	moviescope_http_requests_total               counter   method, route, status
//	moviescope_http_request_duration_seconds     histogram method, route
//	moviescope_gateway_upstream_requests_total   counter   outcome (ok, upstream_error, network_error)
//	moviescope_gateway_cache_hits_total          counter
//	moviescope_bookmarks                         gauge
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviescope_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "moviescope_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

// GatewayUpstream counts calls the gateway forwarded to the catalog.
var GatewayUpstream = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moviescope_gateway_upstream_requests_total",
	Help: "Catalog requests forwarded by the gateway, by outcome.",
}, []string{"outcome"})

var GatewayCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moviescope_gateway_cache_hits_total",
	Help: "Gateway requests answered inside the freshness window.",
})

var Bookmarks = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "moviescope_bookmarks",
	Help: "Number of movies on the watch later list.",
})

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency. Routes are labelled with the
// mux path template to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		route := routeTemplate(r)
		HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Flush keeps streaming handlers working behind the middleware.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
