package bucket

// Batch is an ordered group of instances processed together in one model step.
type Batch struct {
	// Items holds the indexed instances of the batch.
	Items []*Indexed

	// Window is the zero-based number of the memory window the batch was
	// formed from.
	Window int
}

// Len returns the number of instances in the batch.
func (b Batch) Len() int {
	return len(b.Items)
}

// Instances returns the original instances of the batch, in batch order.
func (b Batch) Instances() []Instance {
	out := make([]Instance, len(b.Items))
	for i, item := range b.Items {
		out[i] = item.Instance
	}
	return out
}

// Size returns the sum of the length key over the batch.
func (b Batch) Size(key string) int {
	var total int
	for _, item := range b.Items {
		total += item.Measure(key)
	}
	return total
}

// PaddedSize returns the batch length times the largest value of the length
// key in the batch, i.e. the number of slots once the batch is padded.
func (b Batch) PaddedSize(key string) int {
	var longest int
	for _, item := range b.Items {
		if m := item.Measure(key); m > longest {
			longest = m
		}
	}
	return longest * len(b.Items)
}
