// Package instance provides a concrete bucket.Instance made of named fields,
// and a map-backed vocabulary to index it with.
//
// Fields report their padding lengths under fixed keys: a TextField reports
// NumTokens and NumTokenCharacters, the other field types report none.
//
//	inst := instance.New().
//		Add("tokens", instance.NewTextField(strings.Fields("the cat sat"), "")).
//		Add("label", instance.NewLabelField("animal", "")).
//		Add("sampling_rate", instance.NewScalarField(0.5))
//
// Instances can also be decoded from JSON objects with DecodeJSON, which is
// what the source.JSONLines reader uses.
package instance
