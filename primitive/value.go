package primitive

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the shape of a built Value.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindFile    Kind = "file"
	KindObject  Kind = "object"
	// KindAny is used for values whose schema declares no type.
	KindAny Kind = "any"
)

// Value is a raw value that has been checked and coerced against a schema.
type Value interface {
	Kind() Kind
	// Raw returns the JSON-compatible form of the value.
	Raw() any
}

// Primitive is a typed scalar or array.
//
// Go returns the coerced value:
//
//	integer               int64
//	number                float64
//	boolean               bool
//	string                string
//	string, date          time.Time (midnight UTC)
//	string, date-time     time.Time
//	string, byte          []byte
//	string, uuid          uuid.UUID
//	array                 []Value
//	any                   the input, unchanged
type Primitive struct {
	kind   Kind
	format string
	value  any
	raw    any
}

// Kind implements Value.
func (p *Primitive) Kind() Kind { return p.kind }

// Format returns the declared format, if any.
func (p *Primitive) Format() string { return p.format }

// Go returns the coerced Go value.
func (p *Primitive) Go() any { return p.value }

// Raw implements Value.
func (p *Primitive) Raw() any { return p.raw }

// Items returns the elements of an array value, or nil.
func (p *Primitive) Items() []Value {
	items, _ := p.value.([]Value)
	return items
}

// Int returns the value of an integer primitive.
func (p *Primitive) Int() (int64, bool) {
	v, ok := p.value.(int64)
	return v, ok
}

// Float returns the value of a number primitive.
func (p *Primitive) Float() (float64, bool) {
	v, ok := p.value.(float64)
	return v, ok
}

// Bool returns the value of a boolean primitive.
func (p *Primitive) Bool() (bool, bool) {
	v, ok := p.value.(bool)
	return v, ok
}

// Time returns the value of a date or date-time primitive.
func (p *Primitive) Time() (time.Time, bool) {
	v, ok := p.value.(time.Time)
	return v, ok
}

// UUID returns the value of a uuid primitive.
func (p *Primitive) UUID() (uuid.UUID, bool) {
	v, ok := p.value.(uuid.UUID)
	return v, ok
}

// String returns the wire form of the value.
func (p *Primitive) String() string {
	s, err := Stringify(p)
	if err != nil {
		return ""
	}
	return s
}

// MarshalJSON encodes the raw form.
func (p *Primitive) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.raw)
}

var (
	_ Value = (*Primitive)(nil)
	_ Value = (*File)(nil)
	_ Value = (*Model)(nil)
)
