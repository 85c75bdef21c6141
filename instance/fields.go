package instance

import (
	"fmt"
	"unicode/utf8"
)

// Padding length keys reported by TextField.
const (
	NumTokens          = "num_tokens"
	NumTokenCharacters = "num_token_characters"
)

// Default vocabulary namespaces.
const (
	TokensNamespace = "tokens"
	LabelsNamespace = "labels"
)

// Field is one named part of an Instance.
type Field interface {
	// Index resolves the field against vocab. pretrained is true when the
	// field is backed by pretrained embeddings.
	Index(vocab Vocabulary, pretrained bool) error

	// PaddingLengths returns the field's padding measurements.
	PaddingLengths() map[string]int

	// Raw returns the field's original value.
	Raw() interface{}
}

// TextField is a sequence of tokens.
type TextField struct {
	Tokens    []string
	Namespace string

	ids []int
}

// NewTextField returns a TextField. An empty namespace means TokensNamespace.
func NewTextField(tokens []string, namespace string) *TextField {
	if namespace == "" {
		namespace = TokensNamespace
	}
	return &TextField{Tokens: tokens, Namespace: namespace}
}

// Index implements Field.
func (f *TextField) Index(vocab Vocabulary, pretrained bool) error {
	ext, canExtend := vocab.(Extender)
	ids := make([]int, len(f.Tokens))
	for i, tok := range f.Tokens {
		if pretrained && canExtend {
			ids[i] = ext.AddToken(tok, f.Namespace)
		} else {
			ids[i] = vocab.TokenIndex(tok, f.Namespace)
		}
	}
	f.ids = ids
	return nil
}

// IDs returns the token ids assigned by the last Index call, or nil.
func (f *TextField) IDs() []int {
	return f.ids
}

// PaddingLengths implements Field.
func (f *TextField) PaddingLengths() map[string]int {
	var longest int
	for _, tok := range f.Tokens {
		if n := utf8.RuneCountInString(tok); n > longest {
			longest = n
		}
	}
	return map[string]int{
		NumTokens:          len(f.Tokens),
		NumTokenCharacters: longest,
	}
}

// Raw implements Field.
func (f *TextField) Raw() interface{} {
	return f.Tokens
}

// LabelField is a single categorical label.
type LabelField struct {
	Label     string
	Namespace string

	id int
}

// NewLabelField returns a LabelField. An empty namespace means LabelsNamespace.
func NewLabelField(label, namespace string) *LabelField {
	if namespace == "" {
		namespace = LabelsNamespace
	}
	return &LabelField{Label: label, Namespace: namespace, id: -1}
}

// Index implements Field. Unknown labels are an error.
func (f *LabelField) Index(vocab Vocabulary, _ bool) error {
	id := vocab.TokenIndex(f.Label, f.Namespace)
	if id < 0 {
		return fmt.Errorf("label %q not in namespace %q", f.Label, f.Namespace)
	}
	f.id = id
	return nil
}

// ID returns the label id assigned by the last Index call, or -1.
func (f *LabelField) ID() int {
	return f.id
}

// PaddingLengths implements Field.
func (f *LabelField) PaddingLengths() map[string]int {
	return map[string]int{}
}

// Raw implements Field.
func (f *LabelField) Raw() interface{} {
	return f.Label
}

// ScalarField holds a number, such as a sampling rate or a regression target.
type ScalarField struct {
	Value float64
}

// NewScalarField returns a ScalarField.
func NewScalarField(v float64) *ScalarField {
	return &ScalarField{Value: v}
}

// Index implements Field.
func (f *ScalarField) Index(Vocabulary, bool) error { return nil }

// PaddingLengths implements Field.
func (f *ScalarField) PaddingLengths() map[string]int {
	return map[string]int{}
}

// Raw implements Field.
func (f *ScalarField) Raw() interface{} {
	return f.Value
}

// MetadataField carries arbitrary data through batching untouched.
type MetadataField struct {
	Data interface{}
}

// NewMetadataField returns a MetadataField.
func NewMetadataField(data interface{}) *MetadataField {
	return &MetadataField{Data: data}
}

// Index implements Field.
func (f *MetadataField) Index(Vocabulary, bool) error { return nil }

// PaddingLengths implements Field.
func (f *MetadataField) PaddingLengths() map[string]int {
	return map[string]int{}
}

// Raw implements Field.
func (f *MetadataField) Raw() interface{} {
	return f.Data
}
