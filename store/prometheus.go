package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by the store.
//
// An instance can be created only by the [Prometheus] function. The zero value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics.
	Namespace string
	// Subsystem of the metrics.
	Subsystem string
	// Options for the snapshots gauge.
	Snapshots prometheus.GaugeOpts
	// Options for the saved snapshots counter.
	Saves prometheus.CounterOpts
	// Options for the loaded snapshots counter.
	Loads prometheus.CounterOpts
	// Options for the deleted snapshots counter.
	Deletes prometheus.CounterOpts
	// Options for the operation errors counter.
	Errors prometheus.CounterOpts
	// Options for the stored snapshot size histogram.
	SnapshotBytes prometheus.HistogramOpts
	// Options for the operation duration histogram.
	Duration prometheus.HistogramOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If registerer is nil,
// metrics will not be registered. Many default parameters can be configured by passing
// configuration functions.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	const (
		namespace = "vec"
		subsystem = "store"
	)

	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  namespace,
		Subsystem:  subsystem,
		Snapshots: prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "snapshots",
			Help:      "Number of snapshots in store",
		},
		Saves: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "saves",
			Help:      "Number of saved snapshots",
		},
		Loads: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "loads",
			Help:      "Number of loaded snapshots",
		},
		Deletes: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "deletes",
			Help:      "Number of deleted snapshots",
		},
		Errors: prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "errors",
			Help:      "Number of failed store operations",
		},
		SnapshotBytes: prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "snapshot_bytes",
			Help:      "Size of saved snapshot data",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		},
		Duration: prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Duration of store operations",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	m := metrics{
		snapshots:     prometheus.NewGauge(c.Snapshots),
		saves:         prometheus.NewCounter(c.Saves),
		loads:         prometheus.NewCounter(c.Loads),
		deletes:       prometheus.NewCounter(c.Deletes),
		errors:        prometheus.NewCounterVec(c.Errors, []string{"op"}),
		snapshotBytes: prometheus.NewHistogram(c.SnapshotBytes),
		duration:      prometheus.NewHistogramVec(c.Duration, []string{"op"}),
	}

	if c.registerer != nil {
		c.registerer.MustRegister(
			m.snapshots,
			m.saves,
			m.loads,
			m.deletes,
			m.errors,
			m.snapshotBytes,
			m.duration,
		)
	}

	return &m
}

type metrics struct {
	snapshots     prometheus.Gauge
	saves         prometheus.Counter
	loads         prometheus.Counter
	deletes       prometheus.Counter
	errors        *prometheus.CounterVec
	snapshotBytes prometheus.Histogram
	duration      *prometheus.HistogramVec
}
