package source

import (
	"errors"
	"fmt"
)

var (
	errNilReadFunc = errors.New("read function cannot be nil")
	errNilItems    = errors.New("read function returned a nil items channel")
)

// ChannelConfig provides configuration options for creating a Channel source.
type ChannelConfig struct {
	// Read starts the producer of a pass.
	// This field is required.
	Read ReadFunc
}

// Validate checks if the ChannelConfig is valid.
func (c ChannelConfig) Validate() error {
	if c.Read == nil {
		return errNilReadFunc
	}
	return nil
}

// NewChannel creates a new Channel source with the given configuration.
// It validates the configuration and returns an error if invalid.
//
// Example:
//
//	src, err := source.NewChannel(source.ChannelConfig{
//		Read: func(ctx context.Context) (<-chan bucket.Instance, <-chan error) {
//			items := make(chan bucket.Instance)
//			go func() {
//				defer close(items)
//				for _, inst := range load() {
//					select {
//					case items <- inst:
//					case <-ctx.Done():
//						return
//					}
//				}
//			}()
//			return items, nil
//		},
//	})
func NewChannel(config ChannelConfig) (*Channel, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid channel config: %w", err)
	}

	return &Channel{Read: config.Read}, nil
}

// JSONLinesConfig provides configuration options for creating a JSONLines source.
type JSONLinesConfig struct {
	// Path is the file to read.
	// This field is required.
	Path string

	// Decode converts a line. If nil, instance.DecodeJSON is used.
	Decode DecodeFunc

	// MaxLineSize is the longest accepted line in bytes.
	MaxLineSize int
}

// Validate checks if the JSONLinesConfig is valid.
func (c JSONLinesConfig) Validate() error {
	if c.Path == "" {
		return errors.New("path cannot be empty")
	}
	if c.MaxLineSize < 0 {
		return errors.New("max line size cannot be negative")
	}
	return nil
}

// NewJSONLines creates a new JSONLines source with the given configuration.
// It validates the configuration and returns an error if invalid.
//
// Example:
//
//	src, err := source.NewJSONLines(source.JSONLinesConfig{Path: "train.jsonl"})
//	if err != nil {
//		// handle error
//	}
func NewJSONLines(config JSONLinesConfig) (*JSONLines, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid json lines config: %w", err)
	}

	return &JSONLines{
		Path:        config.Path,
		Decode:      config.Decode,
		MaxLineSize: config.MaxLineSize,
	}, nil
}
