package bucket

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchesOf forms one batch per group of token lengths, in the given order.
func batchesOf(groups ...[]int) []Batch {
	out := make([]Batch, len(groups))
	for i, g := range groups {
		out[i] = Batch{Items: indexedWith(g...)}
	}
	return out
}

func TestScheduler_Schedule(t *testing.T) {
	tests := []struct {
		name         string
		biggestFirst bool
		batches      [][]int
		want         [][]int
	}{
		{
			name:         "biggest first keeps formation order of three",
			biggestFirst: true,
			batches:      [][]int{{10, 9}, {2, 2}, {1}},
			want:         [][]int{{10, 9}, {2, 2}, {1}},
		},
		{
			name:         "biggest first reverses the remainder",
			biggestFirst: true,
			batches:      [][]int{{8}, {6}, {4}, {2}},
			want:         [][]int{{8}, {6}, {2}, {4}},
		},
		{
			name:         "biggest first with two batches",
			biggestFirst: true,
			batches:      [][]int{{5}, {3}},
			want:         [][]int{{5}, {3}},
		},
		{
			name:         "biggest first with a single batch",
			biggestFirst: true,
			batches:      [][]int{{5}},
			want:         [][]int{{5}},
		},
		{
			name:    "formation order",
			batches: [][]int{{8}, {6}, {4}, {2}},
			want:    [][]int{{8}, {6}, {4}, {2}},
		},
		{
			name:         "no batches",
			biggestFirst: true,
			batches:      nil,
			want:         [][]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &scheduler{biggestFirst: tt.biggestFirst}
			got := s.schedule(batchesOf(tt.batches...))
			assert.Equal(t, tt.want, tokenLengths(got))
		})
	}
}

func TestScheduler_ShuffleKeepsBiggestInFront(t *testing.T) {
	s := &scheduler{
		biggestFirst: true,
		shuffle:      true,
		rng:          rand.New(rand.NewPCG(1, 2)),
	}

	for i := 0; i < 20; i++ {
		got := tokenLengths(s.schedule(batchesOf([]int{9}, []int{8}, []int{7}, []int{6}, []int{5}, []int{4})))
		require.Len(t, got, 6)
		assert.Equal(t, []int{9}, got[0])
		assert.Equal(t, []int{8}, got[1])
		assert.ElementsMatch(t, [][]int{{7}, {6}, {5}, {4}}, got[2:])
	}
}

func TestScheduler_ShufflePermutes(t *testing.T) {
	s := &scheduler{
		shuffle: true,
		rng:     rand.New(rand.NewPCG(3, 4)),
	}
	want := [][]int{{9}, {8}, {7}, {6}, {5}, {4}, {3}, {2}}

	var moved bool
	for i := 0; i < 10; i++ {
		got := tokenLengths(s.schedule(batchesOf(want...)))
		assert.ElementsMatch(t, want, got)
		if !assert.ObjectsAreEqual(want, got) {
			moved = true
		}
	}
	assert.True(t, moved, "shuffle never changed the batch order")
}

func TestScheduler_KeepsInstanceOrder(t *testing.T) {
	s := &scheduler{
		biggestFirst: true,
		shuffle:      true,
		rng:          rand.New(rand.NewPCG(5, 6)),
	}

	for _, b := range tokenLengths(s.schedule(batchesOf([]int{9, 8, 7}, []int{6, 5, 4}, []int{3, 2, 1}))) {
		assert.IsNonIncreasing(t, b)
	}
}
