// Package metrics exports iteration statistics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MasterOfBinary/bucketbatch/bucket"
)

const subsystem = "iterator"

// PrometheusCollector is a bucket.StatsCollector that updates Prometheus
// metrics and keeps an in-memory snapshot for GetStats.
type PrometheusCollector struct {
	basic *bucket.BasicStatsCollector

	epochs        *prometheus.CounterVec
	epochDuration prometheus.Histogram
	windowSize    prometheus.Histogram
	instances     *prometheus.CounterVec
	batches       prometheus.Counter
	batchSize     prometheus.Histogram
	oversized     prometheus.Counter
}

var _ bucket.StatsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collector's metrics under namespace and
// registers them with reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		basic: bucket.NewBasicStatsCollector(),
		epochs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "epochs_total",
			Help:      "Epochs by state (started, completed).",
		}, []string{"state"}),
		epochDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "epoch_duration_seconds",
			Help:      "Wall time of completed epochs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		windowSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "window_instances",
			Help:      "Instances read per memory window.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}),
		instances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "instances_total",
			Help:      "Instances read, by sampling result (kept, dropped).",
		}, []string{"result"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batches_total",
			Help:      "Batches formed.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batch_instances",
			Help:      "Instances per batch.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		}),
		oversized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "oversized_batches_total",
			Help:      "Singleton batches whose instance exceeds the token budget.",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.epochs, c.epochDuration, c.windowSize, c.instances, c.batches, c.batchSize, c.oversized,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RecordEpochStart implements the bucket.StatsCollector interface.
func (c *PrometheusCollector) RecordEpochStart() {
	c.basic.RecordEpochStart()
	c.epochs.WithLabelValues("started").Inc()
}

// RecordEpochComplete implements the bucket.StatsCollector interface.
func (c *PrometheusCollector) RecordEpochComplete(batches int, duration time.Duration) {
	c.basic.RecordEpochComplete(batches, duration)
	c.epochs.WithLabelValues("completed").Inc()
	c.epochDuration.Observe(duration.Seconds())
}

// RecordWindow implements the bucket.StatsCollector interface.
func (c *PrometheusCollector) RecordWindow(size int) {
	c.basic.RecordWindow(size)
	c.windowSize.Observe(float64(size))
}

// RecordSampling implements the bucket.StatsCollector interface.
func (c *PrometheusCollector) RecordSampling(kept, dropped int) {
	c.basic.RecordSampling(kept, dropped)
	c.instances.WithLabelValues("kept").Add(float64(kept))
	c.instances.WithLabelValues("dropped").Add(float64(dropped))
}

// RecordBatch implements the bucket.StatsCollector interface.
func (c *PrometheusCollector) RecordBatch(size int) {
	c.basic.RecordBatch(size)
	c.batches.Inc()
	c.batchSize.Observe(float64(size))
}

// RecordOversized implements the bucket.StatsCollector interface.
func (c *PrometheusCollector) RecordOversized() {
	c.basic.RecordOversized()
	c.oversized.Inc()
}

// GetStats implements the bucket.StatsCollector interface.
func (c *PrometheusCollector) GetStats() bucket.Stats {
	return c.basic.GetStats()
}
