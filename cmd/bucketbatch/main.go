// Command bucketbatch prints the batches a length-bucketed iterator forms
// from a JSON-lines dataset. It is meant for inspecting a configuration
// before using it in training.
//
// Usage:
//
//	bucketbatch -config iterator.yaml -data train.jsonl [-epochs 1] [-shuffle] [-seed 42]
//
// Every batch is written to stdout as one JSON object:
//
//	{"epoch":0,"window":0,"size":2,"serials":[4,0],"tokens":[10,9]}
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/MasterOfBinary/bucketbatch/bucket"
	"github.com/MasterOfBinary/bucketbatch/instance"
	"github.com/MasterOfBinary/bucketbatch/metrics"
	"github.com/MasterOfBinary/bucketbatch/source"
)

type options struct {
	configPath string
	dataPath   string
	epochs     int
	shuffle    bool
	seed       uint64
	logLevel   string
	logFormat  string
}

type batchSummary struct {
	Epoch   int   `json:"epoch"`
	Window  int   `json:"window"`
	Size    int   `json:"size"`
	Serials []int `json:"serials"`
	Tokens  []int `json:"tokens"`
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "iterator configuration (YAML or JSON)")
	flag.StringVar(&opts.dataPath, "data", "", "dataset, one JSON object per line")
	flag.IntVar(&opts.epochs, "epochs", 1, "number of epochs")
	flag.BoolVar(&opts.shuffle, "shuffle", false, "shuffle batches within each window")
	flag.Uint64Var(&opts.seed, "seed", 0, "random seed; 0 picks one")
	flag.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.StringVar(&opts.logFormat, "log-format", "slog", "slog or logrus")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "bucketbatch:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if opts.configPath == "" || opts.dataPath == "" {
		return errors.New("both -config and -data are required")
	}

	level, err := parseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger, err := newLogger(opts.logFormat, level)
	if err != nil {
		return err
	}

	values, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	src, err := source.NewJSONLines(source.JSONLinesConfig{Path: opts.dataPath})
	if err != nil {
		return err
	}

	vocab, err := buildVocabulary(ctx, src)
	if err != nil {
		return fmt.Errorf("build vocabulary: %w", err)
	}

	seed := opts.seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	stats, err := metrics.NewPrometheusCollector(prometheus.NewRegistry(), "bucketbatch")
	if err != nil {
		return err
	}

	it, err := bucket.NewWithOptions(&bucket.Options{
		Config: bucket.NewConstantConfig(&values),
		Logger: logger,
		Stats:  stats,
		Rand:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	})
	if err != nil {
		return err
	}
	it.Index(vocab)

	enc := json.NewEncoder(out)
	for b, err := range it.Epochs(ctx, src, opts.epochs, opts.shuffle) {
		if err != nil {
			return err
		}
		if err := enc.Encode(summarize(b)); err != nil {
			return err
		}
	}

	s := stats.GetStats()
	logger.Info("Done: %d epochs, %d batches, %.1f instances per batch, %d oversized, keep rate %.3f, seed %d",
		s.EpochsCompleted, s.Batches, s.AverageBatchSize(), s.OversizedBatches, s.KeepRate(), seed)
	return nil
}

func loadConfig(path string) (bucket.ConfigValues, error) {
	f, err := os.Open(path)
	if err != nil {
		return bucket.ConfigValues{}, err
	}
	defer f.Close()
	return bucket.ParseConfig(f)
}

// buildVocabulary makes one pass over src and adds every text token and label.
func buildVocabulary(ctx context.Context, src bucket.Source) (*instance.MapVocabulary, error) {
	r, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	vocab := instance.NewVocabulary()
	for {
		next, err := r.Next()
		if errors.Is(err, io.EOF) {
			return vocab, nil
		}
		if err != nil {
			return nil, err
		}
		inst, ok := next.(*instance.Instance)
		if !ok {
			continue
		}
		for _, name := range inst.Names() {
			f, _ := inst.Get(name)
			switch f := f.(type) {
			case *instance.TextField:
				for _, tok := range f.Tokens {
					vocab.AddToken(tok, f.Namespace)
				}
			case *instance.LabelField:
				vocab.AddToken(f.Label, f.Namespace)
			}
		}
	}
}

func summarize(b bucket.Batch) batchSummary {
	s := batchSummary{
		Window:  b.Window,
		Size:    b.Len(),
		Serials: make([]int, b.Len()),
		Tokens:  make([]int, b.Len()),
	}
	for i, item := range b.Items {
		s.Epoch = item.Epoch
		s.Serials[i] = item.Serial
		s.Tokens[i] = item.Measure(instance.NumTokens)
	}
	return s
}

func parseLevel(s string) (bucket.LogLevel, error) {
	switch s {
	case "debug":
		return bucket.LogLevelDebug, nil
	case "info":
		return bucket.LogLevelInfo, nil
	case "warn":
		return bucket.LogLevelWarn, nil
	case "error":
		return bucket.LogLevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func newLogger(format string, level bucket.LogLevel) (bucket.Logger, error) {
	switch format {
	case "slog":
		return bucket.NewSimpleLogger(level), nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(os.Stderr)
		l.SetLevel(logrusLevel(level))
		return bucket.NewLogrusLogger(l.WithField("component", "bucket")), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func logrusLevel(level bucket.LogLevel) logrus.Level {
	switch level {
	case bucket.LogLevelDebug:
		return logrus.DebugLevel
	case bucket.LogLevelWarn:
		return logrus.WarnLevel
	case bucket.LogLevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
