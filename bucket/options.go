package bucket

import "math/rand/v2"

// Options contains optional configuration for creating a new Iterator.
type Options struct {
	// Config provides the batching configuration.
	// If nil, a default configuration is used, which fails validation.
	Config Config

	// Logger receives progress and error messages.
	// If nil, no logging occurs.
	Logger Logger

	// Stats collects iteration statistics.
	// If nil, no statistics are collected.
	Stats StatsCollector

	// Rand drives sampling, padding noise and shuffling.
	// If nil, a randomly seeded source is used.
	Rand *rand.Rand

	// PretrainedFields lists the fields backed by pretrained embeddings.
	PretrainedFields []string
}

// WithDefaults returns Options with default values where not specified.
func (o *Options) WithDefaults() *Options {
	var out Options
	if o != nil {
		out = *o
	}

	if out.Config == nil {
		out.Config = NewConstantConfig(nil)
	}
	if out.Logger == nil {
		out.Logger = &NoOpLogger{}
	}
	if out.Stats == nil {
		out.Stats = &NoOpStatsCollector{}
	}
	if out.Rand == nil {
		out.Rand = newRand()
	}

	return &out
}

// NewWithOptions creates a new Iterator with the given options. It returns a
// ConfigurationError if the configuration is invalid.
//
// Example:
//
//	it, err := bucket.NewWithOptions(&bucket.Options{
//		Config: bucket.NewConstantConfig(&bucket.ConfigValues{
//			SortingKeys:       []bucket.SortingKey{{Field: "tokens", Measure: "num_tokens"}},
//			BatchSize:         64,
//			BiggestBatchFirst: true,
//		}),
//		Logger: bucket.NewSimpleLogger(bucket.LogLevelInfo),
//		Rand:   rand.New(rand.NewPCG(1, 2)),
//	})
func NewWithOptions(opts *Options) (*Iterator, error) {
	opts = opts.WithDefaults()

	if err := opts.Config.Get().Validate(); err != nil {
		return nil, err
	}

	return &Iterator{
		config:     opts.Config,
		logger:     opts.Logger,
		stats:      opts.Stats,
		rng:        opts.Rand,
		pretrained: append([]string(nil), opts.PretrainedFields...),
	}, nil
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
