// Package metrics expõe os coletores Prometheus da API em /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry guarda apenas os coletores da aplicação.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clinica",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Requisições HTTP em andamento.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de requisições HTTP atendidas.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clinica",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duração das requisições HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	loginFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "auth",
			Name:      "login_failures_total",
			Help:      "Falhas de login por motivo.",
		},
		[]string{"reason"},
	)

	remindersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clinica",
			Subsystem: "reminders",
			Name:      "sent_total",
			Help:      "Lembretes de consulta processados por resultado.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		loginFailures,
		remindersSent,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler devolve o endpoint de exposição do Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware mede contagem, latência e requisições em andamento por rota.
// Usa o padrão da rota (c.FullPath) para não explodir a cardinalidade com ids.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func LoginFailure(reason string) {
	loginFailures.WithLabelValues(reason).Inc()
}

// ReminderResult conta um lembrete: "sent", "failed" ou "skipped".
func ReminderResult(result string) {
	remindersSent.WithLabelValues(result).Inc()
}
