package bucket

import (
	"context"
	"errors"
	"io"
)

// windower reads a pass over the source in windows of at most size instances.
type windower struct {
	reader    Reader
	size      int
	exhausted bool
}

func newWindower(r Reader, size int) *windower {
	return &windower{reader: r, size: size}
}

// next returns the next window in source order. An empty window with a nil
// error means the reader is exhausted. A size of zero reads everything.
func (w *windower) next(ctx context.Context) ([]Instance, error) {
	if w.exhausted {
		return nil, nil
	}

	var window []Instance
	if w.size > 0 {
		window = make([]Instance, 0, w.size)
	}

	for w.size <= 0 || len(window) < w.size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		inst, err := w.reader.Next()
		if errors.Is(err, io.EOF) {
			w.exhausted = true
			break
		}
		if err != nil {
			return nil, &SourceError{Err: err}
		}
		window = append(window, inst)
	}

	return window, nil
}
