package bucket

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFormer(batchSize int, budget *TokenBudget, stats StatsCollector) *former {
	if stats == nil {
		stats = &NoOpStatsCollector{}
	}
	return &former{
		batchSize: batchSize,
		budget:    budget,
		logger:    &NoOpLogger{},
		stats:     stats,
	}
}

func TestFormer_Form(t *testing.T) {
	tests := []struct {
		name      string
		batchSize int
		budget    *TokenBudget
		lengths   []int
		want      [][]int
	}{
		{
			name:      "fixed groups",
			batchSize: 2,
			lengths:   []int{10, 9, 2, 2, 1},
			want:      [][]int{{10, 9}, {2, 2}, {1}},
		},
		{
			name:      "exact multiple",
			batchSize: 3,
			lengths:   []int{6, 5, 4, 3, 2, 1},
			want:      [][]int{{6, 5, 4}, {3, 2, 1}},
		},
		{
			name:      "sum budget",
			batchSize: 2,
			budget:    &TokenBudget{Key: "num_tokens", Max: 12, Mode: BudgetSum},
			lengths:   []int{10, 9, 2, 2, 1},
			want:      [][]int{{10}, {9, 2}, {2, 1}},
		},
		{
			name:      "sum budget with room",
			batchSize: 4,
			budget:    &TokenBudget{Key: "num_tokens", Max: 12, Mode: BudgetSum},
			lengths:   []int{5, 4, 3, 1},
			want:      [][]int{{5, 4, 3}, {1}},
		},
		{
			name:      "padded budget",
			batchSize: 4,
			budget:    &TokenBudget{Key: "num_tokens", Max: 12, Mode: BudgetPadded},
			lengths:   []int{5, 4, 3, 1},
			want:      [][]int{{5, 4}, {3, 1}},
		},
		{
			name:      "oversized instance batched alone",
			batchSize: 4,
			budget:    &TokenBudget{Key: "num_tokens", Max: 5, Mode: BudgetSum},
			lengths:   []int{8, 3, 2},
			want:      [][]int{{8}, {3, 2}},
		},
		{
			name:      "unknown key measures zero",
			batchSize: 2,
			budget:    &TokenBudget{Key: "num_words", Max: 1, Mode: BudgetSum},
			lengths:   []int{7, 6, 5},
			want:      [][]int{{7, 6}, {5}},
		},
		{
			name:      "empty window",
			batchSize: 2,
			lengths:   nil,
			want:      [][]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFormer(tt.batchSize, tt.budget, nil)
			got := f.form(indexedWith(tt.lengths...))
			assert.Equal(t, tt.want, tokenLengths(got))
			assert.Empty(t, f.carry, "carry must be flushed at window end")
		})
	}
}

func TestFormer_Stats(t *testing.T) {
	stats := NewBasicStatsCollector()
	f := newTestFormer(4, &TokenBudget{Key: "num_tokens", Max: 5, Mode: BudgetSum}, stats)

	got := f.form(indexedWith(8, 3, 2))
	require.Len(t, got, 2)

	s := stats.GetStats()
	assert.Equal(t, uint64(2), s.Batches)
	assert.Equal(t, uint64(1), s.OversizedBatches)
	assert.Equal(t, 1, s.MinBatchSize)
	assert.Equal(t, 2, s.MaxBatchSize)
}

func TestFormer_WindowNumber(t *testing.T) {
	f := newTestFormer(2, nil, nil)
	f.window = 3

	for _, b := range f.form(indexedWith(3, 2, 1)) {
		assert.Equal(t, 3, b.Window)
	}
}

func TestFormer_BatchesDoNotAlias(t *testing.T) {
	f := newTestFormer(2, &TokenBudget{Key: "num_tokens", Max: 100, Mode: BudgetSum}, nil)
	items := indexedWith(4, 3, 2, 1)

	got := f.form(items)
	require.Len(t, got, 2)

	got[0].Items[0] = nil
	assert.NotNil(t, got[1].Items[0])
	assert.NotNil(t, items[0])
}

// Every batch respects the size bound and the budget unless it is a
// singleton, and concatenating the batches gives back the sorted window.
func TestFormer_Bounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 50; round++ {
		n := 1 + rng.IntN(200)
		lengths := make([]int, n)
		for i := range lengths {
			lengths[i] = 1 + rng.IntN(60)
		}
		items := indexedWith(lengths...)
		sortDescending(items)

		budget := &TokenBudget{Key: "num_tokens", Max: 20 + rng.IntN(100), Mode: BudgetSum}
		if round%2 == 1 {
			budget.Mode = BudgetPadded
		}
		batchSize := 1 + rng.IntN(16)

		f := newTestFormer(batchSize, budget, nil)
		got := f.form(items)

		var flat []*Indexed
		for _, b := range got {
			require.NotZero(t, b.Len())
			assert.LessOrEqual(t, b.Len(), batchSize)
			if b.Len() > 1 {
				assert.False(t, f.exceeds(b.Items), "round %d: batch over budget", round)
			}
			flat = append(flat, b.Items...)
		}
		assert.Equal(t, items, flat, "round %d", round)
	}
}

func sortDescending(items []*Indexed) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].SortKey[0] > items[j-1].SortKey[0]; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}
