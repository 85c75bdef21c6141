package bucket

import (
	"context"
	"errors"
	"io"
	"iter"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

var errNilReader = errors.New("invalid source implementation: returned nil reader")

// State is the processing stage of the current window of a Stream.
type State int

const (
	// StateFilling reads the next window from the source.
	StateFilling State = iota
	// StateFiltering applies the sampling filter to the window.
	StateFiltering
	// StateIndexing indexes and sorts the window.
	StateIndexing
	// StateForming cuts the window into batches.
	StateForming
	// StateScheduling orders the batches of the window.
	StateScheduling
	// StateYielding hands out the batches of the window.
	StateYielding
	// StateDone is terminal: the source is exhausted or an error occurred.
	StateDone
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateFilling:
		return "FILLING"
	case StateFiltering:
		return "FILTERING"
	case StateIndexing:
		return "INDEXING"
	case StateForming:
		return "FORMING"
	case StateScheduling:
		return "SCHEDULING"
	case StateYielding:
		return "YIELDING"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Stream yields the batches of a single epoch. Create one with
// Iterator.Epoch. The source is only read when Next needs a window that has
// not been formed yet.
//
//	for stream.Next() {
//		b := stream.Batch()
//		// ...
//	}
//	if err := stream.Err(); err != nil {
//		// ...
//	}
type Stream struct {
	id     uuid.UUID
	ctx    context.Context
	epoch  int
	config ConfigValues
	logger Logger
	stats  StatsCollector

	windows *windower
	sampler *sampler
	indexer *indexer
	sched   *scheduler

	state   State
	window  int
	pending []Batch
	current Batch
	yielded int
	started time.Time
	err     error
}

type streamParams struct {
	epoch      int
	config     ConfigValues
	reader     Reader
	vocab      Vocabulary
	pretrained []string
	shuffle    bool
	rng        *rand.Rand
	logger     Logger
	stats      StatsCollector
}

func newStream(ctx context.Context, p streamParams) *Stream {
	s := &Stream{
		id:      uuid.New(),
		ctx:     ctx,
		epoch:   p.epoch,
		config:  p.config,
		logger:  p.logger,
		stats:   p.stats,
		windows: newWindower(p.reader, p.config.MaxInstancesInMemory),
		sampler: &sampler{
			enabled: p.config.UseSampling,
			field:   p.config.SamplingField,
			rng:     p.rng,
			logger:  p.logger,
		},
		indexer: &indexer{
			keys:       p.config.SortingKeys,
			vocab:      p.vocab,
			pretrained: p.pretrained,
			noise:      p.config.PaddingNoise,
			rng:        p.rng,
			epoch:      p.epoch,
		},
		sched: &scheduler{
			biggestFirst: p.config.BiggestBatchFirst,
			shuffle:      p.shuffle,
			rng:          p.rng,
		},
		state:   StateFilling,
		started: time.Now(),
	}

	s.stats.RecordEpochStart()
	s.logger.Info("Starting epoch %d (%s): batch size %d, window size %d, shuffle %t",
		s.epoch, s.id, p.config.BatchSize, p.config.MaxInstancesInMemory, p.shuffle)

	return s
}

// Next advances to the next batch, which is then available through Batch.
// It returns false when the epoch is over or an error occurred; Err
// distinguishes the two.
func (s *Stream) Next() bool {
	for {
		if len(s.pending) > 0 {
			s.current = s.pending[0]
			s.pending[0] = Batch{}
			s.pending = s.pending[1:]
			s.yielded++
			s.state = StateYielding
			return true
		}

		if s.state == StateDone {
			s.current = Batch{}
			return false
		}

		if err := s.advance(); err != nil {
			s.fail(err)
		}
	}
}

// advance runs one window through every stage up to scheduling, leaving its
// batches in pending. An exhausted source moves the stream to StateDone.
func (s *Stream) advance() error {
	s.state = StateFilling
	window, err := s.windows.next(s.ctx)
	if err != nil {
		return err
	}
	if len(window) == 0 {
		s.finish()
		return nil
	}
	read := len(window)
	s.stats.RecordWindow(read)

	s.state = StateFiltering
	window, dropped := s.sampler.filter(window)
	s.stats.RecordSampling(len(window), dropped)

	s.state = StateIndexing
	sorted, err := s.indexer.index(window)
	if err != nil {
		return err
	}

	s.state = StateForming
	f := &former{
		batchSize: s.config.BatchSize,
		budget:    s.config.MaximumSamplesPerBatch,
		window:    s.window,
		logger:    s.logger,
		stats:     s.stats,
	}
	batches := f.form(sorted)

	s.state = StateScheduling
	s.pending = s.sched.schedule(batches)

	s.logger.Debug("Epoch %d window %d: read %d, kept %d, formed %d batches",
		s.epoch, s.window, read, len(sorted), len(s.pending))
	s.window++
	return nil
}

func (s *Stream) finish() {
	s.state = StateDone
	s.closeReader()
	duration := time.Since(s.started)
	s.stats.RecordEpochComplete(s.yielded, duration)
	s.logger.Info("Epoch %d (%s) complete: %d windows, %d batches, duration: %v",
		s.epoch, s.id, s.window, s.yielded, duration)
}

func (s *Stream) fail(err error) {
	s.state = StateDone
	s.pending = nil
	s.err = err
	s.closeReader()
	s.logger.Error("Epoch %d (%s) stopped in window %d: %v", s.epoch, s.id, s.window, err)
}

// Close stops the stream early and releases the reader if it implements
// io.Closer. Batches not yet yielded are discarded. It is safe to call Close
// after the stream has ended.
func (s *Stream) Close() error {
	if s.state == StateDone {
		return nil
	}
	s.state = StateDone
	s.pending = nil
	s.current = Batch{}
	return s.closeReader()
}

func (s *Stream) closeReader() error {
	c, ok := s.windows.reader.(io.Closer)
	if !ok {
		return nil
	}
	s.windows.reader = nil
	return c.Close()
}

// Batch returns the batch produced by the last call to Next.
func (s *Stream) Batch() Batch {
	return s.current
}

// Err returns the error that ended the stream, if any. It returns nil when
// the source was exhausted normally.
func (s *Stream) Err() error {
	return s.err
}

// State returns the stage the stream is in.
func (s *Stream) State() State {
	return s.state
}

// ID returns the unique identifier of the epoch, as used in log messages.
func (s *Stream) ID() uuid.UUID {
	return s.id
}

// Epoch returns the zero-based epoch number of the stream.
func (s *Stream) Epoch() int {
	return s.epoch
}

// All returns a sequence over the remaining batches of the stream. If the
// stream ends with an error, it is yielded last with an empty Batch.
func (s *Stream) All() iter.Seq2[Batch, error] {
	return func(yield func(Batch, error) bool) {
		for s.Next() {
			if !yield(s.Batch(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield(Batch{}, err)
		}
	}
}
