package api

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/bookmark-comb/app/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes request counters and the counters of the latest run
type Metrics struct {
	registry *prometheus.Registry
	runs     database.RunStore

	requests      *prometheus.CounterVec
	lastLoaded    prometheus.Gauge
	lastKept      prometheus.Gauge
	lastDiscarded prometheus.Gauge
	lastFinished  prometheus.Gauge
}

func NewMetrics(runs database.RunStore) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs:     runs,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookmark_comb_http_requests_total",
			Help: "HTTP requests served, by route and status.",
		}, []string{"method", "route", "status"}),
		lastLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bookmark_comb_last_run_loaded",
			Help: "Bookmarks loaded by the latest run.",
		}),
		lastKept: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bookmark_comb_last_run_kept",
			Help: "Bookmarks kept by the latest run.",
		}),
		lastDiscarded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bookmark_comb_last_run_discarded",
			Help: "Duplicates discarded by the latest run.",
		}),
		lastFinished: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bookmark_comb_last_run_finished_timestamp_seconds",
			Help: "Finish time of the latest run.",
		}),
	}

	m.registry.MustRegister(m.requests, m.lastLoaded, m.lastKept, m.lastDiscarded, m.lastFinished)
	return m
}

// Middleware counts every request by its route pattern
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler refreshes the run gauges and serves the registry
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})

	return func(c *gin.Context) {
		m.refresh()
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func (m *Metrics) refresh() {
	if m.runs == nil {
		return
	}

	run, err := m.runs.GetLatestRun()
	if errors.Is(err, database.ErrNotFound) {
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "get_latest_run", "error", err)
		return
	}

	m.lastLoaded.Set(float64(run.TotalInput))
	m.lastKept.Set(float64(run.Kept))
	m.lastDiscarded.Set(float64(run.Discarded))
	if run.FinishedAt != nil {
		m.lastFinished.Set(float64(run.FinishedAt.Unix()))
	}
}
