package bucket

import "context"

// SourceFunc is a function type that implements the Source interface.
type SourceFunc func(ctx context.Context) (Reader, error)

// Open implements the Source interface.
func (f SourceFunc) Open(ctx context.Context) (Reader, error) {
	return f(ctx)
}

// ReaderFunc is a function type that implements the Reader interface.
type ReaderFunc func() (Instance, error)

// Next implements the Reader interface.
func (f ReaderFunc) Next() (Instance, error) {
	return f()
}
