package instance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// DecodeJSON builds an Instance from a JSON object. Fields are added in
// lexical key order and typed by their JSON value:
//
//   - an array of strings becomes a TextField in TokensNamespace
//   - a string becomes a LabelField in LabelsNamespace
//   - a number becomes a ScalarField
//   - anything else becomes a MetadataField
//
// For example:
//
//	{"tokens": ["a", "short", "sentence"], "label": "pos", "sampling_rate": 0.25}
func DecodeJSON(data []byte) (*Instance, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode instance: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	inst := New()
	for _, name := range names {
		f, err := decodeField(raw[name])
		if err != nil {
			return nil, fmt.Errorf("decode instance: field %q: %w", name, err)
		}
		inst.Add(name, f)
	}
	return inst, nil
}

func decodeField(msg json.RawMessage) (Field, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty value")
	}

	switch trimmed[0] {
	case '[':
		var tokens []string
		if err := json.Unmarshal(trimmed, &tokens); err == nil {
			return NewTextField(tokens, ""), nil
		}
	case 'n':
		return NewMetadataField(nil), nil
	case '"':
		var label string
		if err := json.Unmarshal(trimmed, &label); err != nil {
			return nil, err
		}
		return NewLabelField(label, ""), nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err == nil {
			return NewScalarField(n), nil
		}
	}

	var data interface{}
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return nil, err
	}
	return NewMetadataField(data), nil
}
