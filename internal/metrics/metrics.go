// Package metrics exposes Prometheus metrics for canvases and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"canvasd/internal/canvas"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. Each collector
// owns its registry, so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Canvas metrics
	Canvases       prometheus.Gauge
	NodesCreated   prometheus.Counter
	DragsStarted   prometheus.Counter
	DragsCommitted prometheus.Counter
	DragsAbandoned prometheus.Counter
	ActiveDrags    prometheus.Gauge
	MoveDistance   prometheus.Histogram

	// Journal metrics
	JournalErrors prometheus.Counter
}

// NewCollector creates a collector with the given namespace
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Canvases: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "canvases",
			Help:      "Number of open canvases",
		}),
		NodesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Total number of node accessors created",
		}),
		DragsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drags_started_total",
			Help:      "Total number of drag gestures started",
		}),
		DragsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drags_committed_total",
			Help:      "Total number of drag gestures committed on pointer-up",
		}),
		DragsAbandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drags_abandoned_total",
			Help:      "Total number of drag gestures abandoned on cancel or blur",
		}),
		ActiveDrags: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_drags",
			Help:      "Number of drag gestures in progress",
		}),
		MoveDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "move_distance_pixels",
			Help:      "Manhattan length of committed moves",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		JournalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_errors_total",
			Help:      "Total number of moves that could not be journaled",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Canvases,
		c.NodesCreated,
		c.DragsStarted,
		c.DragsCommitted,
		c.DragsAbandoned,
		c.ActiveDrags,
		c.MoveDistance,
		c.JournalErrors,
	)

	return c
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveChange updates canvas metrics from a canvas change
func (c *Collector) ObserveChange(ch canvas.Change) {
	switch ch.Type {
	case canvas.ChangeNodeAdded:
		c.NodesCreated.Inc()
	case canvas.ChangeDragStarted:
		c.DragsStarted.Inc()
		c.ActiveDrags.Inc()
	case canvas.ChangeDragCommitted:
		c.DragsCommitted.Inc()
		c.ActiveDrags.Dec()
		c.MoveDistance.Observe(abs(ch.Offset.DX) + abs(ch.Offset.DY))
	case canvas.ChangeMoveApplied:
		c.MoveDistance.Observe(abs(ch.Offset.DX) + abs(ch.Offset.DY))
	case canvas.ChangeDragAbandoned:
		c.DragsAbandoned.Inc()
		c.ActiveDrags.Dec()
	}
}

// ObserveRequest records one HTTP request
func (c *Collector) ObserveRequest(method, route, status string, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
