package bucket

// Default values used when the corresponding ConfigValues field is left
// at its zero value.
const (
	// DefaultBatchSize is the number of instances per batch when BatchSize is zero.
	DefaultBatchSize = 32

	// DefaultSamplingField is the instance field holding the sampling rate
	// when SamplingField is empty.
	DefaultSamplingField = "sampling_rate"
)

// Budget modes for TokenBudget.Mode.
const (
	// BudgetSum bounds the sum of the measurement over the batch.
	BudgetSum = "sum"

	// BudgetPadded bounds the padded size of the batch: its length times the
	// largest measurement in it.
	BudgetPadded = "padded"
)
