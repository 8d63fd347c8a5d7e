// Package metrics holds the Prometheus collectors shared by the dataset
// loader, the dashboard and the HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crimeflow"

var (
	// datasetRows reports the size of the loaded table.
	// Labels: state (read, kept, dropped)
	datasetRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "dataset",
		Name:      "rows",
		Help:      "Incident rows seen by the most recent load",
	}, []string{"state"})

	// figureDuration measures how long one dashboard figure takes.
	// Labels: figure (map, bar, month, day, hour, flow)
	figureDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "figure_duration_seconds",
		Help:      "Time to compute one dashboard figure",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"figure"})

	// emptySelections counts interactions skipped because a multi-select
	// was cleared.
	emptySelections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "empty_selections_total",
		Help:      "Interactions skipped due to an empty selection",
	})

	// flowBuilds counts flow model builds.
	// Labels: status (ok, error)
	flowBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "flow",
		Name:      "builds_total",
		Help:      "Flow model builds by outcome",
	}, []string{"status"})

	flowNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "flow",
		Name:      "nodes",
		Help:      "Nodes per built flow model",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	// httpRequests counts served requests.
	// Labels: method, route, code
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"method", "route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveDataset records the row counts of a load.
func ObserveDataset(read, kept int) {
	datasetRows.WithLabelValues("read").Set(float64(read))
	datasetRows.WithLabelValues("kept").Set(float64(kept))
	datasetRows.WithLabelValues("dropped").Set(float64(read - kept))
}

// ObserveFigure records the time spent computing one figure.
func ObserveFigure(figure string, d time.Duration) {
	figureDuration.WithLabelValues(figure).Observe(d.Seconds())
}

// EmptySelection counts a skipped interaction.
func EmptySelection() { emptySelections.Inc() }

// ObserveFlow records a flow build outcome and, on success, its node count.
func ObserveFlow(nodes int, err error) {
	if err != nil {
		flowBuilds.WithLabelValues("error").Inc()
		return
	}
	flowBuilds.WithLabelValues("ok").Inc()
	flowNodes.Observe(float64(nodes))
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route string, code int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }
