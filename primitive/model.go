package primitive

import (
	"encoding/json"
	"slices"

	"github.com/erraggy/oasbind/oaserrors"
	"github.com/erraggy/oasbind/spec"
)

// Model is a structured value typed against the most specific schema whose
// required fields the input satisfies. Only fields declared along that
// schema's allOf chain are kept; absent optional fields are simply missing.
type Model struct {
	schema   *spec.Schema
	subType  string
	declared []string
	fields   map[string]Value
}

// Kind implements Value.
func (m *Model) Kind() Kind { return KindObject }

// SubType returns the name of the selected schema. It is empty when the
// model was built against an inline schema with no known subtypes.
func (m *Model) SubType() string { return m.subType }

// Schema returns the selected schema.
func (m *Model) Schema() *spec.Schema { return m.schema }

// Has reports whether a field is set.
func (m *Model) Has(name string) bool {
	_, ok := m.fields[name]
	return ok
}

// Get returns a set field. Reading a field that is declared but absent, or
// not declared on the selected type at all, fails with
// *oaserrors.FieldNotSetError; the model is left unchanged either way.
func (m *Model) Get(name string) (Value, error) {
	if v, ok := m.fields[name]; ok {
		return v, nil
	}
	return nil, &oaserrors.FieldNotSetError{
		Type:     m.subType,
		Field:    name,
		Declared: slices.Contains(m.declared, name),
	}
}

// Declared returns every field declared on the selected type's chain,
// ancestors' fields first.
func (m *Model) Declared() []string {
	return slices.Clone(m.declared)
}

// Fields returns the names of the set fields in declaration order.
func (m *Model) Fields() []string {
	out := make([]string, 0, len(m.fields))
	for _, name := range m.declared {
		if _, ok := m.fields[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Len returns the number of set fields.
func (m *Model) Len() int { return len(m.fields) }

// Raw implements Value. It returns a fresh map[string]any on every call.
func (m *Model) Raw() any {
	out := make(map[string]any, len(m.fields))
	for name, v := range m.fields {
		out[name] = v.Raw()
	}
	return out
}

// MarshalJSON encodes the set fields as a JSON object.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Raw())
}
