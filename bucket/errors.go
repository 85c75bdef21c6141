package bucket

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSortingKeys is returned when the configuration has no sorting keys.
	ErrNoSortingKeys = errors.New("sorting keys must not be empty")

	// ErrNoVocabulary is returned when an epoch starts before Index was called.
	ErrNoVocabulary = errors.New("vocabulary must be set with Index before iterating")

	// ErrNilSource is returned when Epoch is called with a nil Source.
	ErrNilSource = errors.New("source cannot be nil")
)

// ConfigurationError is returned when the iterator is misconfigured. It is
// never handled internally: continuing would produce wrongly ordered or
// unbounded batches.
type ConfigurationError struct {
	Err error
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e ConfigurationError) Unwrap() error {
	return e.Err
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Err: fmt.Errorf(format, args...)}
}

// SourceError is returned when a source fails.
type SourceError struct {
	Err error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("source error: %v", e.Err)
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// IndexError is returned when an instance cannot be indexed against the
// vocabulary.
type IndexError struct {
	Serial int
	Err    error
}

func (e IndexError) Error() string {
	return fmt.Sprintf("index error: instance %d: %v", e.Serial, e.Err)
}

func (e IndexError) Unwrap() error {
	return e.Err
}
