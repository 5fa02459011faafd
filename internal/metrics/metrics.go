// Package metrics exposes the Prometheus instrumentation of the simulator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/setanarut/bsp"
)

const (
	opLabel    = "op"
	queryLabel = "query"
)

var (
	bspFrameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bsp_frame_duration_seconds",
		Help:    "The time spent updating the index for one frame.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	bspOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bsp_operations_total",
		Help: "The number of index mutations.",
	}, []string{opLabel})

	bspQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bsp_query_duration_seconds",
		Help:    "The time spent answering queries.",
		Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
	}, []string{queryLabel})

	bspQueryResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bsp_query_results",
		Help:    "The number of objects a query returned.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{queryLabel})

	bspObjects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bsp_objects",
		Help: "The number of objects in the index.",
	})

	bspNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bsp_nodes",
		Help: "The number of live tree nodes.",
	})

	bspEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bsp_edges",
		Help: "The number of object memberships in tree nodes.",
	})

	bspDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bsp_depth",
		Help: "The depth of the tree.",
	})
)

// ObserveFrame records how long one frame of updates took.
func ObserveFrame(d time.Duration) {
	bspFrameDuration.Observe(d.Seconds())
}

// CountOperation counts n index mutations of the given kind.
func CountOperation(op string, n int) {
	bspOperations.
		With(prometheus.Labels{opLabel: op}).
		Add(float64(n))
}

// ObserveQuery records the duration and result size of one query.
func ObserveQuery(query string, d time.Duration, results int) {
	bspQueryDuration.
		With(prometheus.Labels{queryLabel: query}).
		Observe(d.Seconds())
	bspQueryResults.
		With(prometheus.Labels{queryLabel: query}).
		Observe(float64(results))
}

// SetTree publishes the shape of the tree.
func SetTree(s bsp.Stats) {
	bspObjects.Set(float64(s.Objects))
	bspNodes.Set(float64(s.Nodes))
	bspEdges.Set(float64(s.Edges))
	bspDepth.Set(float64(s.Depth))
}
