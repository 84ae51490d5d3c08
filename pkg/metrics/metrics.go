// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 指标集合
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 业务指标
	TransitionsTotal      *prometheus.CounterVec
	NotificationsTotal    *prometheus.CounterVec
	DeadLetteredTotal     prometheus.Counter
	ApplicationsSubmitted prometheus.Counter
	CacheHitsTotal        prometheus.Counter
	CacheMissesTotal      prometheus.Counter
}

// New 创建指标实例并注册到独立 registry
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recruiting",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "recruiting",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recruiting",
			Subsystem: serviceName,
			Name:      "status_transitions_total",
			Help:      "Total successful application status transitions",
		}, []string{"status"}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recruiting",
			Subsystem: serviceName,
			Name:      "notifications_total",
			Help:      "Total status notification dispatch attempts",
		}, []string{"outcome"}),
		DeadLetteredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruiting",
			Subsystem: serviceName,
			Name:      "notifications_dead_lettered_total",
			Help:      "Total notification dispatches forwarded to the dead-letter topic",
		}),
		ApplicationsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruiting",
			Subsystem: serviceName,
			Name:      "applications_submitted_total",
			Help:      "Total applications submitted",
		}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruiting",
			Subsystem: serviceName,
			Name:      "application_cache_hits_total",
			Help:      "Total application read-cache hits",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recruiting",
			Subsystem: serviceName,
			Name:      "application_cache_misses_total",
			Help:      "Total application read-cache misses",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TransitionsTotal,
		m.NotificationsTotal,
		m.DeadLetteredTotal,
		m.ApplicationsSubmitted,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Handler 返回 Prometheus 抓取端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
