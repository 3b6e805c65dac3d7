package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMiddleware базовые HTTP-метрики для Gin.
// Использование:
//
//	mw, err := middleware.NewPrometheusMiddleware("voxel_api", reg)
//	r.Use(mw.Handler())
//	mw.RegisterMetricsEndpoint(r, gatherer)
//
// Метрики:
// * http_requests_total{method,path,status}: counter
// * http_request_duration_seconds{method,path,status}: histogram
// * http_requests_inflight: gauge
// * http_request_errors_total{method,path,status}: counter (4xx/5xx)
type PrometheusMiddleware struct {
	reqTotal    *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
	reqInflight prometheus.Gauge
	reqErrors   *prometheus.CounterVec
}

// NewPrometheusMiddleware создаёт middleware и регистрирует метрики в reg
func NewPrometheusMiddleware(service string, reg prometheus.Registerer) (*PrometheusMiddleware, error) {
	labels := []string{"method", "path", "status"}
	pm := &PrometheusMiddleware{
		reqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: service,
			Name:      "http_requests_total",
			Help:      "Количество HTTP-запросов.",
		}, labels),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: service,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность HTTP-запросов.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, labels),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: service,
			Name:      "http_requests_inflight",
			Help:      "Текущее количество обрабатываемых HTTP-запросов.",
		}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: service,
			Name:      "http_request_errors_total",
			Help:      "Общее число запросов, завершившихся ошибкой (4xx/5xx).",
		}, labels),
	}

	for _, c := range []prometheus.Collector{pm.reqTotal, pm.reqDuration, pm.reqInflight, pm.reqErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return pm, nil
}

// Handler возвращает gin.HandlerFunc для router.Use()
func (pm *PrometheusMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		pm.reqInflight.Inc()
		defer pm.reqInflight.Dec()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched" // все немаршрутизированные URL под одной меткой
		}
		code := c.Writer.Status()
		lv := []string{c.Request.Method, path, strconv.Itoa(code)}

		pm.reqTotal.WithLabelValues(lv...).Inc()
		pm.reqDuration.WithLabelValues(lv...).Observe(time.Since(start).Seconds())
		if code >= 400 {
			pm.reqErrors.WithLabelValues(lv...).Inc()
		}
	}
}

// RegisterMetricsEndpoint добавляет GET /metrics в router
func (pm *PrometheusMiddleware) RegisterMetricsEndpoint(r *gin.Engine, g prometheus.Gatherer) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}
