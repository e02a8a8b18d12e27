package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lelo88/lostfound-api-golang/internal/stats"
)

const namespace = "lostfound"

// Metrics agrupa el registry propio y los instrumentos HTTP.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New crea un registry con métricas de proceso/Go y de requests HTTP.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	registry.MustRegister(requests, duration)

	return &Metrics{registry: registry, requests: requests, duration: duration}
}

// Middleware registra cada request usando el patrón de chi (no el path crudo)
// para no explotar la cardinalidad con ids.
func (metrics *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		metrics.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler expone el registry en formato Prometheus. Si un collector falla
// se sirve el resto igual.
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// RegisterItems agrega gauges con los contadores de stats, calculados en cada scrape.
func (metrics *Metrics) RegisterItems(source stats.Computer) error {
	return metrics.registry.Register(&itemsCollector{source: source})
}

var itemsDesc = prometheus.NewDesc(
	prometheus.BuildFQName(namespace, "", "items"),
	"Items in the store by state.",
	[]string{"state"}, nil,
)

type itemsCollector struct {
	source stats.Computer
}

func (collector *itemsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- itemsDesc
}

func (collector *itemsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	summary, err := collector.source.Compute(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(itemsDesc, err)
		return
	}

	for state, value := range map[string]int{
		"total":        summary.Total,
		"active_lost":  summary.ActiveLost,
		"active_found": summary.ActiveFound,
		"resolved":     summary.Resolved,
	} {
		ch <- prometheus.MustNewConstMetric(itemsDesc, prometheus.GaugeValue, float64(value), state)
	}
}
