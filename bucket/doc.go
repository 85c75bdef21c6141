// Package bucket contains the core length-bucketed batching functionality.
// The main type is Iterator, which can be created using New. For each epoch it
// reads instances from a Source and yields them in batches through a Stream.
// Some Source implementations are provided in the source package, and a
// concrete Instance implementation lives in the instance package, or you can
// write your own based on your needs.
//
// Each epoch is processed as a sequence of memory windows. A window passes
// through the following stages before any of its batches are yielded:
//
//	FILLING -> FILTERING -> INDEXING -> FORMING -> SCHEDULING -> YIELDING
//
// FILLING reads up to MaxInstancesInMemory instances from the source.
// FILTERING drops instances according to their sampling rate when UseSampling
// is set. INDEXING indexes every instance against the vocabulary, reads its
// padding lengths and sorts the window by the SortingKeys, longest first.
// FORMING cuts the sorted window into batches of BatchSize instances, splitting
// further when MaximumSamplesPerBatch is set. SCHEDULING optionally moves the
// biggest batch to the front and shuffles the rest.
//
// A few examples, with BatchSize = 2 and token lengths [10, 2, 2, 9, 1]:
//
// - No budget: the sorted window [10, 9, 2, 2, 1] forms [[10, 9], [2, 2], [1]].
// - MaximumSamplesPerBatch = (num_tokens, 12): [[10], [9, 2], [2, 1]].
// - BiggestBatchFirst: [10, 9] is always yielded first, even when shuffling.
//
// A window boundary always flushes the batch under formation, so the last
// batch of a window may be smaller than BatchSize even when more windows follow.
//
// The configuration is reloaded at the start of every epoch. This allows
// DynamicConfig to change batching behavior between epochs.
//
// Iteration is pull-based and single-threaded: the source is only advanced
// when the consumer asks for a batch that is not yet available.
//
//	stream, err := it.Epoch(ctx, src, true)
//	if err != nil {
//	  return err
//	}
//	for stream.Next() {
//	  train(stream.Batch())
//	}
//	return stream.Err()
package bucket
