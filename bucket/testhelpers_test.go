package bucket

import (
	"context"
	"io"
)

// TestVocabulary is a stand-in vocabulary; the iterator only checks it is set.
var TestVocabulary Vocabulary = "test-vocabulary"

// TestInstance is an Instance with fixed padding lengths that records how it
// was indexed.
type TestInstance struct {
	ID         int
	Lengths    PaddingLengths
	Values     map[string]interface{}
	IndexErr   error
	Serials    []int
	Pretrained []string
}

// NewTestInstance returns an instance whose "tokens" field has num_tokens = tokens.
func NewTestInstance(id, tokens int) *TestInstance {
	return &TestInstance{
		ID:      id,
		Lengths: PaddingLengths{"tokens": {"num_tokens": tokens}},
	}
}

// MakeInstances returns one TestInstance per length, with IDs in order.
func MakeInstances(lengths ...int) []Instance {
	out := make([]Instance, len(lengths))
	for i, n := range lengths {
		out[i] = NewTestInstance(i, n)
	}
	return out
}

func (i *TestInstance) IndexFields(vocab Vocabulary, pretrained []string, serial int) error {
	if i.IndexErr != nil {
		return i.IndexErr
	}
	i.Serials = append(i.Serials, serial)
	i.Pretrained = pretrained
	return nil
}

func (i *TestInstance) PaddingLengths() PaddingLengths {
	return i.Lengths
}

func (i *TestInstance) Field(name string) (interface{}, bool) {
	v, ok := i.Values[name]
	return v, ok
}

// TestSource serves Instances on every Open and counts the passes.
type TestSource struct {
	Instances []Instance
	OpenErr   error

	// Err, if set, is returned after FailAfter instances.
	Err       error
	FailAfter int

	Opens int
}

func (s *TestSource) Open(ctx context.Context) (Reader, error) {
	s.Opens++
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	pos := 0
	return ReaderFunc(func() (Instance, error) {
		if s.Err != nil && pos == s.FailAfter {
			return nil, s.Err
		}
		if pos == len(s.Instances) {
			return nil, io.EOF
		}
		pos++
		return s.Instances[pos-1], nil
	}), nil
}

// TokenKeys sorts by tokens/num_tokens.
var TokenKeys = []SortingKey{{Field: "tokens", Measure: "num_tokens"}}

// indexedWith returns already indexed items with the given token lengths,
// using the lengths as sort keys.
func indexedWith(lengths ...int) []*Indexed {
	out := make([]*Indexed, len(lengths))
	for i, n := range lengths {
		out[i] = &Indexed{
			Instance: NewTestInstance(i, n),
			Serial:   i,
			Lengths:  PaddingLengths{"tokens": {"num_tokens": n}},
			SortKey:  []float64{float64(n)},
		}
	}
	return out
}

// tokenLengths returns the num_tokens of each batch, for compact assertions.
func tokenLengths(batches []Batch) [][]int {
	out := make([][]int, len(batches))
	for i, b := range batches {
		out[i] = make([]int, b.Len())
		for j, item := range b.Items {
			out[i][j] = item.Measure("num_tokens")
		}
	}
	return out
}
