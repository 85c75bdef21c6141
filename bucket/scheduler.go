package bucket

import "math/rand/v2"

// scheduler decides the order in which the batches of a window are yielded.
type scheduler struct {
	biggestFirst bool
	shuffle      bool
	rng          *rand.Rand
}

// schedule reorders batches in place and returns them. Batches arrive in
// formation order, which is longest instances first.
//
// With biggestFirst, the list is reversed and its last two entries (the two
// batches of longest instances) are set aside, the rest is optionally
// shuffled, and the two are put back in front: longest first, then the
// runner-up. Instances are never reordered within a batch.
func (s *scheduler) schedule(batches []Batch) []Batch {
	biggestFirst := s.biggestFirst && len(batches) > 1

	var last, penultimate Batch
	if biggestFirst {
		for i, j := 0, len(batches)-1; i < j; i, j = i+1, j-1 {
			batches[i], batches[j] = batches[j], batches[i]
		}
		n := len(batches)
		last, penultimate = batches[n-1], batches[n-2]
		batches = batches[:n-2]
	}

	if s.shuffle {
		s.rng.Shuffle(len(batches), func(i, j int) {
			batches[i], batches[j] = batches[j], batches[i]
		})
	}

	if biggestFirst {
		out := make([]Batch, 0, len(batches)+2)
		out = append(out, last, penultimate)
		batches = append(out, batches...)
	}

	return batches
}
