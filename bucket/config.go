package bucket

import (
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config retrieves the config values used by Iterator. If these values are
// constant, NewConstantConfig can be used to create an implementation
// of the interface.
//
// Config is read at the start of every epoch, so an implementation that
// changes its values affects the next epoch, never the one in progress.
type Config interface {
	// Get returns the values for configuration.
	//
	// If the config values may be modified while an epoch is running, Get
	// must properly handle concurrency issues.
	Get() ConfigValues
}

// TokenBudget bounds the aggregate size of a batch along one padding length
// key. A batch holding a single instance may exceed it.
type TokenBudget struct {
	// Key is the padding length key, e.g. "num_tokens". An instance's
	// measurement is the largest value of Key over all its fields.
	Key string `json:"key" yaml:"key"`

	// Max is the largest allowed aggregate.
	Max int `json:"max" yaml:"max"`

	// Mode selects how the aggregate is computed: BudgetSum (the default)
	// adds the measurements, BudgetPadded multiplies the batch length by the
	// largest measurement.
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// ConfigValues is a struct that contains the Iterator config values.
type ConfigValues struct {
	// SortingKeys defines the composite key instances are sorted by, so that
	// instances of similar length end up in the same batch. Required.
	SortingKeys []SortingKey `json:"sortingKeys" yaml:"sorting_keys"`

	// BatchSize is the number of instances per batch. Batches are smaller
	// at window boundaries and when MaximumSamplesPerBatch splits them.
	// Zero means DefaultBatchSize.
	BatchSize int `json:"batchSize" yaml:"batch_size"`

	// BiggestBatchFirst yields the batch holding the longest instances of
	// each window first, so that out-of-memory failures happen early.
	BiggestBatchFirst bool `json:"biggestBatchFirst" yaml:"biggest_batch_first"`

	// UseSampling keeps each instance with the probability given by its
	// SamplingField. Instances without that field are always kept.
	UseSampling bool `json:"useSampling" yaml:"use_sampling"`

	// SamplingField names the field holding the sampling rate. Empty means
	// DefaultSamplingField.
	SamplingField string `json:"samplingField,omitempty" yaml:"sampling_field,omitempty"`

	// MaxInstancesInMemory bounds the number of instances read from the
	// source at once. Zero reads the whole source into a single window.
	MaxInstancesInMemory int `json:"maxInstancesInMemory" yaml:"max_instances_in_memory"`

	// MaximumSamplesPerBatch, when set, splits batches whose aggregate size
	// exceeds the budget.
	MaximumSamplesPerBatch *TokenBudget `json:"maximumSamplesPerBatch,omitempty" yaml:"maximum_samples_per_batch,omitempty"`

	// PaddingNoise adds uniform relative noise in [-PaddingNoise, PaddingNoise]
	// to every sort key value, so instances of nearly equal length are mixed
	// differently each epoch. Zero disables it.
	PaddingNoise float64 `json:"paddingNoise,omitempty" yaml:"padding_noise,omitempty"`
}

// Validate checks the values and returns a ConfigurationError describing the
// first problem found.
func (c ConfigValues) Validate() error {
	if len(c.SortingKeys) == 0 {
		return &ConfigurationError{Err: ErrNoSortingKeys}
	}
	for i, k := range c.SortingKeys {
		if k.Field == "" || k.Measure == "" {
			return configErrorf("sorting key %d must name both a field and a measure, got %q/%q", i, k.Field, k.Measure)
		}
	}
	if c.BatchSize < 0 {
		return configErrorf("batch size cannot be negative, got %d", c.BatchSize)
	}
	if c.MaxInstancesInMemory < 0 {
		return configErrorf("max instances in memory cannot be negative, got %d", c.MaxInstancesInMemory)
	}
	if c.PaddingNoise < 0 || c.PaddingNoise >= 1 {
		return configErrorf("padding noise must be in [0, 1), got %v", c.PaddingNoise)
	}
	if b := c.MaximumSamplesPerBatch; b != nil {
		if b.Key == "" {
			return configErrorf("maximum samples per batch must name a length key")
		}
		if b.Max <= 0 {
			return configErrorf("maximum samples per batch must be positive, got %d", b.Max)
		}
		switch b.Mode {
		case "", BudgetSum, BudgetPadded:
		default:
			return configErrorf("unknown budget mode %q", b.Mode)
		}
	}
	return nil
}

// fixConfig fills in defaults for zero values.
//
// It applies the following adjustments:
//   - If BatchSize is zero, it is set to DefaultBatchSize.
//   - If SamplingField is empty, it is set to DefaultSamplingField.
//   - If a budget Mode is empty, it is set to BudgetSum.
//
// The returned values do not share memory with c.
func fixConfig(c ConfigValues) ConfigValues {
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.SamplingField == "" {
		c.SamplingField = DefaultSamplingField
	}
	c.SortingKeys = append([]SortingKey(nil), c.SortingKeys...)
	if c.MaximumSamplesPerBatch != nil {
		b := *c.MaximumSamplesPerBatch
		if b.Mode == "" {
			b.Mode = BudgetSum
		}
		c.MaximumSamplesPerBatch = &b
	}
	return c
}

// ParseConfig decodes ConfigValues from YAML. Since JSON is valid YAML, JSON
// documents are accepted as well. The result is validated.
//
// Sorting keys and the budget may be written as pairs:
//
//	sorting_keys: [[tokens, num_tokens], [tokens, num_token_characters]]
//	batch_size: 64
//	maximum_samples_per_batch: [num_tokens, 4000]
func ParseConfig(r io.Reader) (ConfigValues, error) {
	var c ConfigValues
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return ConfigValues{}, &ConfigurationError{Err: fmt.Errorf("parse config: %w", err)}
	}
	if err := c.Validate(); err != nil {
		return ConfigValues{}, err
	}
	return c, nil
}

// UnmarshalYAML accepts either a [field, measure] pair or a mapping.
func (k *SortingKey) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var pair []string
		if err := value.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: sorting key must be a [field, measure] pair, got %d elements", value.Line, len(pair))
		}
		k.Field, k.Measure = pair[0], pair[1]
		return nil
	}
	type plain SortingKey
	return value.Decode((*plain)(k))
}

// UnmarshalYAML accepts either a [key, max] pair or a mapping.
func (b *TokenBudget) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		if len(value.Content) != 2 {
			return fmt.Errorf("line %d: budget must be a [key, max] pair, got %d elements", value.Line, len(value.Content))
		}
		if err := value.Content[0].Decode(&b.Key); err != nil {
			return err
		}
		return value.Content[1].Decode(&b.Max)
	}
	type plain TokenBudget
	return value.Decode((*plain)(b))
}

// NewConstantConfig returns a Config with constant values. If values
// is nil, the zero values are used, which fail validation until sorting keys
// are provided.
func NewConstantConfig(values *ConfigValues) *ConstantConfig {
	if values == nil {
		return &ConstantConfig{}
	}

	return &ConstantConfig{
		values: fixConfig(*values),
	}
}

// ConstantConfig is a Config with constant values. Create one with
// NewConstantConfig.
type ConstantConfig struct {
	values ConfigValues
}

// Get implements the Config interface.
func (c *ConstantConfig) Get() ConfigValues {
	return fixConfig(c.values)
}

// NewDynamicConfig creates a configuration that can be adjusted between
// epochs. It is safe for concurrent use.
func NewDynamicConfig(values *ConfigValues) *DynamicConfig {
	if values == nil {
		return &DynamicConfig{}
	}

	return &DynamicConfig{
		values: fixConfig(*values),
	}
}

// DynamicConfig implements the Config interface with values that can be
// modified at runtime. Changes take effect when the next epoch starts.
type DynamicConfig struct {
	mu     sync.RWMutex
	values ConfigValues
}

// Get implements the Config interface.
func (c *DynamicConfig) Get() ConfigValues {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fixConfig(c.values)
}

// UpdateBatchSize updates the batch size.
func (c *DynamicConfig) UpdateBatchSize(batchSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values.BatchSize = batchSize
}

// UpdateBudget replaces the token budget. A nil budget disables splitting.
func (c *DynamicConfig) UpdateBudget(budget *TokenBudget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if budget == nil {
		c.values.MaximumSamplesPerBatch = nil
		return
	}
	b := *budget
	c.values.MaximumSamplesPerBatch = &b
}

// Update replaces all configuration values at once.
func (c *DynamicConfig) Update(values ConfigValues) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = fixConfig(values)
}
