// Package metrics 暴露 Prometheus 指标，每个 Metrics 持有独立注册表
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 预订生命周期动作，用作 action 标签
const (
	ActionCreate   = "create"
	ActionCheckout = "checkout"
	ActionCancel   = "cancel"
	ActionDelete   = "delete"
)

const defaultNamespace = "frontdesk"

var httpBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

type Metrics struct {
	registry *prometheus.Registry

	httpRequests           *prometheus.CounterVec
	httpDuration           *prometheus.HistogramVec
	httpInFlight           prometheus.Gauge
	cacheHits              *prometheus.CounterVec
	cacheMisses            *prometheus.CounterVec
	reservationTransitions *prometheus.CounterVec
	roomStatusChanges      *prometheus.CounterVec
	loginAttempts          *prometheus.CounterVec
	roomsByStatus          *prometheus.GaugeVec
	overdueReservations    prometheus.Gauge
}

var (
	current   *Metrics
	currentMu sync.Mutex
)

// Init 创建指标集合并设为全局默认
func Init(namespace string) *Metrics {
	if namespace == "" {
		namespace = defaultNamespace
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	m := &Metrics{
		registry:     reg,
		httpRequests: counter("http_requests_total", "HTTP requests by route and status", "method", "path", "status"),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   httpBuckets,
		}, []string{"method", "path"}),
		httpInFlight:           gauge("http_requests_in_flight", "HTTP requests being served"),
		cacheHits:              counter("cache_hits_total", "Cache hits", "cache"),
		cacheMisses:            counter("cache_misses_total", "Cache misses", "cache"),
		reservationTransitions: counter("reservation_transitions_total", "Reservation lifecycle transitions", "action"),
		roomStatusChanges:      counter("room_status_changes_total", "Room status changes by target status", "status"),
		loginAttempts:          counter("login_attempts_total", "Login attempts by result", "result"),
		roomsByStatus: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Rooms by status at the last refresh",
		}, []string{"status"}),
		overdueReservations: gauge("reservations_overdue", "Active reservations past their check-out date"),
	}

	currentMu.Lock()
	current = m
	currentMu.Unlock()
	return m
}

// GetMetrics 返回全局默认实例，未初始化时按默认命名空间创建
func GetMetrics() *Metrics {
	currentMu.Lock()
	m := current
	currentMu.Unlock()
	if m == nil {
		return Init("")
	}
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware 按路由模板记录请求数与耗时，未匹配路由记为 unknown
func (m *Metrics) Middleware(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露本实例注册表
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}

func (m *Metrics) RecordCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

func (m *Metrics) RecordCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

func (m *Metrics) RecordReservationTransition(action string) {
	m.reservationTransitions.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordRoomStatusChange(status string) {
	m.roomStatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

// SetRoomsByStatus 覆盖各状态房间数
func (m *Metrics) SetRoomsByStatus(counts map[string]int64) {
	for status, n := range counts {
		m.roomsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

func (m *Metrics) SetOverdueReservations(n int) {
	m.overdueReservations.Set(float64(n))
}
