package source

import (
	"context"
	"io"

	"github.com/MasterOfBinary/bucketbatch/bucket"
)

// Slice returns a Source over a fixed list of instances. The slice is not
// copied; do not modify it while a pass is in progress.
func Slice(instances ...bucket.Instance) bucket.Source {
	return sliceSource(instances)
}

type sliceSource []bucket.Instance

// Open implements the bucket.Source interface.
func (s sliceSource) Open(_ context.Context) (bucket.Reader, error) {
	return &sliceReader{instances: s}, nil
}

type sliceReader struct {
	instances []bucket.Instance
	pos       int
}

func (r *sliceReader) Next() (bucket.Instance, error) {
	if r.pos >= len(r.instances) {
		return nil, io.EOF
	}
	inst := r.instances[r.pos]
	r.pos++
	return inst, nil
}
