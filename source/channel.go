package source

import (
	"context"
	"io"

	"github.com/MasterOfBinary/bucketbatch/bucket"
)

// ReadFunc starts a producer for one pass and returns its channels. The
// producer must close items when the pass is over, and may report errors on
// errs, which can be nil.
type ReadFunc func(ctx context.Context) (items <-chan bucket.Instance, errs <-chan error)

// Channel is a Source backed by a producer that pushes instances over a
// channel, for example a goroutine decoding records from the network.
type Channel struct {
	// Read is called once per pass.
	Read ReadFunc
}

// Open implements the bucket.Source interface. The returned reader stops with
// ctx.Err() once ctx is done.
func (s *Channel) Open(ctx context.Context) (bucket.Reader, error) {
	if s.Read == nil {
		return nil, errNilReadFunc
	}
	items, errs := s.Read(ctx)
	if items == nil {
		return nil, errNilItems
	}
	return &channelReader{ctx: ctx, items: items, errs: errs}, nil
}

type channelReader struct {
	ctx   context.Context
	items <-chan bucket.Instance
	errs  <-chan error
}

func (r *channelReader) Next() (bucket.Instance, error) {
	for {
		select {
		case <-r.ctx.Done():
			return nil, r.ctx.Err()

		case err, ok := <-r.errs:
			if !ok {
				// A nil channel blocks forever, so the select ignores it.
				r.errs = nil
				continue
			}
			if err != nil {
				return nil, err
			}

		case inst, ok := <-r.items:
			if ok {
				return inst, nil
			}
			// Report an error sent just before items was closed.
			select {
			case err, ok := <-r.errs:
				if ok && err != nil {
					return nil, err
				}
			default:
			}
			return nil, io.EOF
		}
	}
}
