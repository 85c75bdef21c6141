package source

import (
	"context"
	"io"

	"github.com/MasterOfBinary/bucketbatch/bucket"
)

// Error is a Source that yields a fixed list of instances and then fails.
// It is useful for testing error handling of consumers.
type Error struct {
	// Instances are yielded before the failure.
	Instances []bucket.Instance

	// Err is returned by the reader after Instances. If nil, the pass ends
	// normally.
	Err error

	// OpenErr, if set, is returned by Open instead of a reader.
	OpenErr error
}

// Open implements the bucket.Source interface.
func (s *Error) Open(_ context.Context) (bucket.Reader, error) {
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	return &errorReader{src: s}, nil
}

type errorReader struct {
	src *Error
	pos int
}

func (r *errorReader) Next() (bucket.Instance, error) {
	if r.pos < len(r.src.Instances) {
		r.pos++
		return r.src.Instances[r.pos-1], nil
	}
	if r.src.Err != nil {
		return nil, r.src.Err
	}
	return nil, io.EOF
}
