package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "placekeeper",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "placekeeper",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Place domain metrics
	PlaceMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "placekeeper",
		Subsystem: "places",
		Name:      "mutations_total",
		Help:      "Total place create/update/delete operations that reached storage",
	}, []string{"op"})

	GeoQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "placekeeper",
		Subsystem: "places",
		Name:      "geo_queries_total",
		Help:      "Total radius and bounding-box searches",
	}, []string{"kind"})

	AccessDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "placekeeper",
		Subsystem: "places",
		Name:      "access_denials_total",
		Help:      "Total operations denied by the cultural access policy",
	}, []string{"op"})

	RestrictedFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "placekeeper",
		Subsystem: "places",
		Name:      "restricted_filtered_total",
		Help:      "Restricted places dropped by the defense-in-depth result filter",
	})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "placekeeper",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "placekeeper",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "placekeeper",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat the gauges need; declared here so
// the metrics package does not import the driver.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics refreshes pool gauges from pgx pool stats.
func UpdateDBPoolMetrics(stat PoolStat) {
	DBPoolConnsAcquired.Set(float64(stat.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(stat.IdleConns()))
	DBPoolConnsOpen.Set(float64(stat.TotalConns()))
}
