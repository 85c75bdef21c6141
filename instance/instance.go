package instance

import (
	"fmt"
	"slices"

	"github.com/MasterOfBinary/bucketbatch/bucket"
)

// Instance is an ordered set of named fields. It implements bucket.Instance.
type Instance struct {
	names  []string
	fields map[string]Field
	serial int
}

var _ bucket.Instance = (*Instance)(nil)

// New returns an empty Instance.
func New() *Instance {
	return &Instance{fields: make(map[string]Field), serial: -1}
}

// Add sets the named field and returns the instance. Replacing a field keeps
// its original position.
func (i *Instance) Add(name string, f Field) *Instance {
	if _, ok := i.fields[name]; !ok {
		i.names = append(i.names, name)
	}
	i.fields[name] = f
	return i
}

// Names returns the field names in insertion order.
func (i *Instance) Names() []string {
	return append([]string(nil), i.names...)
}

// Get returns the named field.
func (i *Instance) Get(name string) (Field, bool) {
	f, ok := i.fields[name]
	return f, ok
}

// Serial returns the serial passed to the last IndexFields call, or -1.
func (i *Instance) Serial() int {
	return i.serial
}

// IndexFields implements bucket.Instance. vocab must implement Vocabulary;
// anything else is a configuration error.
func (i *Instance) IndexFields(vocab bucket.Vocabulary, pretrained []string, serial int) error {
	v, ok := vocab.(Vocabulary)
	if !ok {
		return &bucket.ConfigurationError{Err: fmt.Errorf("vocabulary of type %T cannot index instances", vocab)}
	}
	for _, name := range i.names {
		if err := i.fields[name].Index(v, slices.Contains(pretrained, name)); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	i.serial = serial
	return nil
}

// PaddingLengths implements bucket.Instance.
func (i *Instance) PaddingLengths() bucket.PaddingLengths {
	out := make(bucket.PaddingLengths, len(i.fields))
	for name, f := range i.fields {
		out[name] = f.PaddingLengths()
	}
	return out
}

// Field implements bucket.Instance. It returns the field's Raw value.
func (i *Instance) Field(name string) (interface{}, bool) {
	f, ok := i.fields[name]
	if !ok {
		return nil, false
	}
	return f.Raw(), true
}
