package bucket

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSource(t *testing.T, src *TestSource) Reader {
	t.Helper()
	r, err := src.Open(context.Background())
	require.NoError(t, err)
	return r
}

func TestWindower_Next(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		count int
		want  []int
	}{
		{name: "partial last window", size: 2, count: 5, want: []int{2, 2, 1}},
		{name: "exact multiple", size: 2, count: 4, want: []int{2, 2}},
		{name: "unbounded", size: 0, count: 5, want: []int{5}},
		{name: "window larger than source", size: 10, count: 3, want: []int{3}},
		{name: "empty source", size: 3, count: 0, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &TestSource{Instances: MakeInstances(make([]int, tt.count)...)}
			w := newWindower(openTestSource(t, src), tt.size)

			got := []int{}
			var next int
			for {
				window, err := w.next(context.Background())
				require.NoError(t, err)
				if len(window) == 0 {
					break
				}
				got = append(got, len(window))
				for _, inst := range window {
					assert.Equal(t, next, inst.(*TestInstance).ID, "source order")
					next++
				}
			}
			assert.Equal(t, tt.want, got)

			// Exhaustion is sticky.
			window, err := w.next(context.Background())
			assert.NoError(t, err)
			assert.Empty(t, window)
		})
	}
}

func TestWindower_SourceError(t *testing.T) {
	boom := errors.New("disk on fire")
	src := &TestSource{Instances: MakeInstances(1, 2, 3), Err: boom, FailAfter: 1}
	w := newWindower(openTestSource(t, src), 5)

	_, err := w.next(context.Background())

	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.ErrorIs(t, err, boom)
}

func TestWindower_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &TestSource{Instances: MakeInstances(1, 2, 3)}
	w := newWindower(openTestSource(t, src), 2)

	_, err := w.next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
