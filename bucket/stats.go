package bucket

import (
	"sync"
	"sync/atomic"
	"time"
)

// StatsCollector defines the interface for collecting metrics during iteration.
// Implementations can store metrics in memory or export them to monitoring
// systems; see the metrics package for a Prometheus implementation.
// The StatsCollector is optional - if not provided, no statistics are collected.
type StatsCollector interface {
	// RecordEpochStart is called when an epoch starts.
	RecordEpochStart()

	// RecordEpochComplete is called when the last batch of an epoch has been
	// yielded. batches is the number of batches yielded during the epoch.
	RecordEpochComplete(batches int, duration time.Duration)

	// RecordWindow is called once per memory window with the number of
	// instances read from the source.
	RecordWindow(size int)

	// RecordSampling is called once per window with the number of instances
	// kept and dropped by the sampling filter.
	RecordSampling(kept, dropped int)

	// RecordBatch is called for each batch formed.
	RecordBatch(size int)

	// RecordOversized is called when a single instance exceeds the token
	// budget and forms a batch on its own.
	RecordOversized()

	// GetStats returns a snapshot of the current statistics.
	GetStats() Stats
}

// Stats holds aggregated statistics about iteration.
type Stats struct {
	// EpochsStarted is the number of epochs started.
	EpochsStarted uint64

	// EpochsCompleted is the number of epochs whose batches were all yielded.
	EpochsCompleted uint64

	// Windows is the number of memory windows filled.
	Windows uint64

	// InstancesRead is the number of instances read from sources.
	InstancesRead uint64

	// InstancesKept is the number of instances that passed sampling.
	InstancesKept uint64

	// InstancesDropped is the number of instances removed by sampling.
	InstancesDropped uint64

	// Batches is the number of batches formed.
	Batches uint64

	// OversizedBatches is the number of singleton batches exceeding the budget.
	OversizedBatches uint64

	// MinBatchSize is the smallest batch formed.
	MinBatchSize int

	// MaxBatchSize is the largest batch formed.
	MaxBatchSize int

	// MaxWindowSize is the largest window read.
	MaxWindowSize int

	// TotalEpochTime is the cumulative time of completed epochs.
	TotalEpochTime time.Duration

	// StartTime is when statistics collection began.
	StartTime time.Time

	// LastUpdateTime is when statistics were last updated.
	LastUpdateTime time.Time
}

// NoOpStatsCollector is a stats collector that discards all metrics.
// This is the default stats collector when none is specified.
type NoOpStatsCollector struct{}

// RecordEpochStart implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordEpochStart() {}

// RecordEpochComplete implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordEpochComplete(batches int, duration time.Duration) {}

// RecordWindow implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordWindow(size int) {}

// RecordSampling implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordSampling(kept, dropped int) {}

// RecordBatch implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordBatch(size int) {}

// RecordOversized implements the StatsCollector interface.
func (n *NoOpStatsCollector) RecordOversized() {}

// GetStats implements the StatsCollector interface.
func (n *NoOpStatsCollector) GetStats() Stats {
	return Stats{}
}

// BasicStatsCollector is a simple in-memory implementation of StatsCollector.
// All operations are thread-safe.
type BasicStatsCollector struct {
	mu    sync.RWMutex
	stats Stats

	// Atomic counters for lock-free updates
	epochsStarted    uint64
	epochsCompleted  uint64
	windows          uint64
	instancesRead    uint64
	instancesKept    uint64
	instancesDropped uint64
	batches          uint64
	oversized        uint64
}

// NewBasicStatsCollector creates a new BasicStatsCollector.
func NewBasicStatsCollector() *BasicStatsCollector {
	now := time.Now()
	return &BasicStatsCollector{
		stats: Stats{
			StartTime:      now,
			LastUpdateTime: now,
		},
	}
}

func (b *BasicStatsCollector) touch() {
	b.mu.Lock()
	b.stats.LastUpdateTime = time.Now()
	b.mu.Unlock()
}

// RecordEpochStart implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordEpochStart() {
	atomic.AddUint64(&b.epochsStarted, 1)
	b.touch()
}

// RecordEpochComplete implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordEpochComplete(batches int, duration time.Duration) {
	atomic.AddUint64(&b.epochsCompleted, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	b.stats.TotalEpochTime += duration
}

// RecordWindow implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordWindow(size int) {
	atomic.AddUint64(&b.windows, 1)
	atomic.AddUint64(&b.instancesRead, uint64(size))

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	if size > b.stats.MaxWindowSize {
		b.stats.MaxWindowSize = size
	}
}

// RecordSampling implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordSampling(kept, dropped int) {
	atomic.AddUint64(&b.instancesKept, uint64(kept))
	atomic.AddUint64(&b.instancesDropped, uint64(dropped))
}

// RecordBatch implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordBatch(size int) {
	atomic.AddUint64(&b.batches, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.LastUpdateTime = time.Now()
	if size < b.stats.MinBatchSize || b.stats.MinBatchSize == 0 {
		b.stats.MinBatchSize = size
	}
	if size > b.stats.MaxBatchSize {
		b.stats.MaxBatchSize = size
	}
}

// RecordOversized implements the StatsCollector interface.
func (b *BasicStatsCollector) RecordOversized() {
	atomic.AddUint64(&b.oversized, 1)
}

// GetStats implements the StatsCollector interface.
// It returns a snapshot of the current statistics.
func (b *BasicStatsCollector) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := b.stats
	stats.EpochsStarted = atomic.LoadUint64(&b.epochsStarted)
	stats.EpochsCompleted = atomic.LoadUint64(&b.epochsCompleted)
	stats.Windows = atomic.LoadUint64(&b.windows)
	stats.InstancesRead = atomic.LoadUint64(&b.instancesRead)
	stats.InstancesKept = atomic.LoadUint64(&b.instancesKept)
	stats.InstancesDropped = atomic.LoadUint64(&b.instancesDropped)
	stats.Batches = atomic.LoadUint64(&b.batches)
	stats.OversizedBatches = atomic.LoadUint64(&b.oversized)

	return stats
}

// AverageBatchSize returns the average number of instances per batch.
// Returns 0 if no batches have been formed.
func (s *Stats) AverageBatchSize() float64 {
	if s.Batches == 0 {
		return 0
	}
	return float64(s.InstancesKept) / float64(s.Batches)
}

// KeepRate returns the fraction of read instances that passed sampling.
// Returns 0 if nothing has been read.
func (s *Stats) KeepRate() float64 {
	total := s.InstancesKept + s.InstancesDropped
	if total == 0 {
		return 0
	}
	return float64(s.InstancesKept) / float64(total)
}

// AverageEpochTime returns the average duration of a completed epoch.
// Returns 0 if no epoch has completed.
func (s *Stats) AverageEpochTime() time.Duration {
	if s.EpochsCompleted == 0 {
		return 0
	}
	return s.TotalEpochTime / time.Duration(s.EpochsCompleted)
}

// Duration returns the total duration since statistics collection started.
func (s *Stats) Duration() time.Duration {
	return s.LastUpdateTime.Sub(s.StartTime)
}
