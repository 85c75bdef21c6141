package bucket

import (
	"context"
	"iter"
	"math/rand/v2"
	"sync"
)

// Iterator groups the instances of a Source into batches of similar length.
// Each call to Epoch starts a new pass over the source and returns a Stream
// that yields the batches of that pass.
//
// To create a new Iterator, call New or NewWithOptions. Configuration is
// validated eagerly, and again at the start of each epoch:
//
//	it, err := bucket.New(bucket.NewConstantConfig(&bucket.ConfigValues{
//		SortingKeys: []bucket.SortingKey{{Field: "tokens", Measure: "num_tokens"}},
//		BatchSize:   32,
//	}))
//	if err != nil {
//		return err
//	}
//	it.Index(vocab)
//
// A vocabulary must be set with Index before the first epoch; otherwise Epoch
// returns a ConfigurationError.
//
// Iteration never starts goroutines. An Iterator and the Streams it returns
// share a random source and must not be used from several goroutines at once.
type Iterator struct {
	config Config
	logger Logger
	stats  StatsCollector
	rng    *rand.Rand

	mu         sync.Mutex
	vocab      Vocabulary
	pretrained []string
	epochs     int
}

// New creates a new Iterator using the provided config. If config is nil,
// a default configuration is used, which fails validation because it has no
// sorting keys.
func New(config Config) (*Iterator, error) {
	return NewWithOptions(&Options{Config: config})
}

// WithLogger sets a custom logger for the Iterator.
// If not set, no logging occurs (uses NoOpLogger internally).
//
// Example:
//
//	it.WithLogger(bucket.NewSimpleLogger(bucket.LogLevelInfo))
func (it *Iterator) WithLogger(logger Logger) *Iterator {
	it.mu.Lock()
	defer it.mu.Unlock()

	if logger == nil {
		logger = &NoOpLogger{}
	}
	it.logger = logger
	return it
}

// WithStats sets a custom stats collector for the Iterator.
// If not set, no statistics are collected (uses NoOpStatsCollector internally).
//
// Example:
//
//	stats := bucket.NewBasicStatsCollector()
//	it.WithStats(stats)
//
//	// Later, retrieve statistics
//	currentStats := stats.GetStats()
func (it *Iterator) WithStats(stats StatsCollector) *Iterator {
	it.mu.Lock()
	defer it.mu.Unlock()

	if stats == nil {
		stats = &NoOpStatsCollector{}
	}
	it.stats = stats
	return it
}

// WithRand sets the random source used for sampling, padding noise and
// shuffling. Use a seeded source for reproducible epochs.
func (it *Iterator) WithRand(rng *rand.Rand) *Iterator {
	it.mu.Lock()
	defer it.mu.Unlock()

	if rng == nil {
		rng = newRand()
	}
	it.rng = rng
	return it
}

// WithPretrainedFields sets the field names passed to Instance.IndexFields as
// backed by pretrained embeddings.
func (it *Iterator) WithPretrainedFields(names ...string) *Iterator {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.pretrained = append([]string(nil), names...)
	return it
}

// Index sets the vocabulary instances are indexed against. It must be called
// before the first epoch.
func (it *Iterator) Index(vocab Vocabulary) {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.vocab = vocab
}

// Epoch starts a new pass over src and returns the Stream of its batches.
// If shuffle is true, batch order is randomized within each memory window.
//
// Epoch reloads the configuration and fails with a ConfigurationError if it
// is invalid or if no vocabulary has been set. Errors from src.Open are
// wrapped in a SourceError.
//
// ctx is checked before every read from the source; once it is done, the
// stream stops and Err returns ctx.Err().
func (it *Iterator) Epoch(ctx context.Context, src Source, shuffle bool) (*Stream, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	config := it.config.Get()
	if err := config.Validate(); err != nil {
		it.logger.Error("Invalid configuration: %v", err)
		return nil, err
	}
	config = fixConfig(config)

	it.mu.Lock()
	vocab := it.vocab
	pretrained := it.pretrained
	epoch := it.epochs
	it.mu.Unlock()

	if vocab == nil {
		it.logger.Error("Epoch %d: no vocabulary set", epoch)
		return nil, &ConfigurationError{Err: ErrNoVocabulary}
	}

	r, err := src.Open(ctx)
	if err != nil {
		it.logger.Error("Epoch %d: opening source: %v", epoch, err)
		return nil, &SourceError{Err: err}
	}
	if r == nil {
		return nil, &SourceError{Err: errNilReader}
	}

	it.mu.Lock()
	it.epochs++
	it.mu.Unlock()

	return newStream(ctx, streamParams{
		epoch:      epoch,
		config:     config,
		reader:     r,
		vocab:      vocab,
		pretrained: pretrained,
		shuffle:    shuffle,
		rng:        it.rng,
		logger:     it.logger,
		stats:      it.stats,
	}), nil
}

// Epochs returns a sequence over the batches of n consecutive epochs. If n
// is zero or negative, epochs continue until the consumer stops or an epoch
// yields no batches.
//
// The first error, including one from Epoch itself, is yielded with an empty
// Batch and ends the sequence.
//
// Example:
//
//	for b, err := range it.Epochs(ctx, src, 10, true) {
//		if err != nil {
//			return err
//		}
//		train(b)
//	}
func (it *Iterator) Epochs(ctx context.Context, src Source, n int, shuffle bool) iter.Seq2[Batch, error] {
	return func(yield func(Batch, error) bool) {
		for e := 0; n <= 0 || e < n; e++ {
			stream, err := it.Epoch(ctx, src, shuffle)
			if err != nil {
				yield(Batch{}, err)
				return
			}

			var batches int
			for b, err := range stream.All() {
				if !yield(b, err) || err != nil {
					stream.Close()
					return
				}
				batches++
			}

			if batches == 0 && n <= 0 {
				it.logger.Warn("Epoch %d yielded no batches, stopping", stream.Epoch())
				return
			}
		}
	}
}

// EstimateBatches returns the number of batches n instances produce at the
// current batch size, without a token budget or window boundaries. It is a
// lower bound suited for progress reporting.
func (it *Iterator) EstimateBatches(n int) int {
	if n <= 0 {
		return 0
	}
	size := fixConfig(it.config.Get()).BatchSize
	return (n + size - 1) / size
}
