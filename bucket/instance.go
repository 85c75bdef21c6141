package bucket

import "context"

// PaddingLengths maps a field name to the padding measurements of that field,
// for example {"tokens": {"num_tokens": 12}}.
type PaddingLengths map[string]map[string]int

// Vocabulary is passed to Instance.IndexFields unchanged. The iterator never
// inspects it; it only requires one to be set before iterating.
type Vocabulary interface{}

// Instance is a single labeled training example made of named fields.
type Instance interface {
	// IndexFields resolves the instance's field values against vocab.
	// pretrained lists the field names backed by pretrained embeddings, and
	// serial is the position of the instance within the current pass.
	IndexFields(vocab Vocabulary, pretrained []string, serial int) error

	// PaddingLengths returns the padding measurements of every field.
	// It is only called after IndexFields.
	PaddingLengths() PaddingLengths

	// Field returns the raw value of the named field.
	Field(name string) (interface{}, bool)
}

// Reader reads the instances of a single pass in order.
type Reader interface {
	// Next returns the next instance, or io.EOF once the pass is exhausted.
	Next() (Instance, error)
}

// Source opens passes over a dataset. Every epoch calls Open again, so
// implementations must be able to start over.
//
// Example:
//
//	type sliceSource []bucket.Instance
//
//	func (s sliceSource) Open(ctx context.Context) (bucket.Reader, error) {
//		i := 0
//		return bucket.ReaderFunc(func() (bucket.Instance, error) {
//			if i == len(s) {
//				return nil, io.EOF
//			}
//			i++
//			return s[i-1], nil
//		}), nil
//	}
type Source interface {
	Open(ctx context.Context) (Reader, error)
}

// SortingKey names one padding measurement of one field. A list of sorting
// keys forms a composite key compared lexicographically, primary key first.
type SortingKey struct {
	Field   string `json:"field" yaml:"field"`
	Measure string `json:"measure" yaml:"measure"`
}

// Indexed pairs an instance with the metadata derived while indexing it.
// The wrapped Instance is never modified by the iterator.
type Indexed struct {
	// Instance is the original instance.
	Instance Instance

	// Serial is the position of the instance within its epoch, counted after
	// sampling.
	Serial int

	// Epoch is the zero-based epoch the instance was read in.
	Epoch int

	// Lengths holds the padding lengths read after indexing.
	Lengths PaddingLengths

	// SortKey holds one value per SortingKey, in order, including any padding
	// noise.
	SortKey []float64
}

// Measure returns the largest value of the length key over all fields of the
// instance, or 0 if no field reports it.
func (ix *Indexed) Measure(key string) int {
	var m int
	for _, lengths := range ix.Lengths {
		if v, ok := lengths[key]; ok && v > m {
			m = v
		}
	}
	return m
}
