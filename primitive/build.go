package primitive

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/erraggy/oasbind/internal/pathutil"
	"github.com/erraggy/oasbind/internal/stringutil"
	"github.com/erraggy/oasbind/oaserrors"
	"github.com/erraggy/oasbind/spec"
)

// Date is the layout of the "date" string format.
const Date = "2006-01-02"

// Builder builds typed values from raw values and schemas. It only reads
// from the resolver, so one Builder may be shared by many goroutines.
type Builder struct {
	resolver *spec.Resolver
}

// NewBuilder creates a Builder that dereferences schemas through r.
func NewBuilder(r *spec.Resolver) *Builder {
	return &Builder{resolver: r}
}

// Build checks raw against s and returns the typed value. A nil schema
// accepts any value unchanged. Failures are *oaserrors.ValidationError.
func (b *Builder) Build(s *spec.Schema, raw any) (Value, error) {
	return b.BuildAt("", s, raw)
}

// BuildAt is like Build, reporting failures relative to path
// (for example "body" or "petId").
func (b *Builder) BuildAt(path string, s *spec.Schema, raw any) (Value, error) {
	pb := pathutil.Get()
	defer pathutil.Put(pb)
	if path != "" {
		pb.Push(path)
	}
	return b.build(pb, s, raw)
}

// BuildFiles builds one or more files for a file parameter. raw may be a
// single file or a slice of them.
func (b *Builder) BuildFiles(path string, raw any) ([]*File, error) {
	pb := pathutil.Get()
	defer pathutil.Put(pb)
	if path != "" {
		pb.Push(path)
	}

	var items []any
	switch v := raw.(type) {
	case []*File:
		for _, f := range v {
			items = append(items, f)
		}
	case []File:
		for _, f := range v {
			items = append(items, f)
		}
	case []any:
		items = v
	case []map[string]any:
		for _, m := range v {
			items = append(items, m)
		}
	default:
		items = []any{raw}
	}

	list := isList(raw)
	out := make([]*File, 0, len(items))
	for i, item := range items {
		if list {
			pb.PushIndex(i)
		}
		f, err := toFile(item)
		if err != nil {
			return nil, invalid(pb, item, "%s", err.Error())
		}
		if list {
			pb.Pop()
		}
		out = append(out, f)
	}
	return out, nil
}

func isList(raw any) bool {
	switch raw.(type) {
	case []*File, []File, []any, []map[string]any:
		return true
	}
	return false
}

func invalid(pb *pathutil.PathBuilder, value any, format string, args ...any) error {
	return &oaserrors.ValidationError{
		Path:    pb.String(),
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

func (b *Builder) build(pb *pathutil.PathBuilder, s *spec.Schema, raw any) (Value, error) {
	if s == nil {
		return &Primitive{kind: KindAny, value: raw, raw: raw}, nil
	}
	s, err := b.resolver.DerefSchema(s)
	if err != nil {
		return nil, &oaserrors.ValidationError{Path: pb.String(), Message: "schema cannot be resolved", Cause: err}
	}
	if v, ok := raw.(Value); ok && v.Kind() != KindFile {
		raw = v.Raw()
	}

	switch {
	case s.Type == "file":
		f, err := toFile(raw)
		if err != nil {
			return nil, invalid(pb, raw, "%s", err.Error())
		}
		return f, nil
	case s.IsObject():
		return b.buildModel(pb, s, raw)
	case s.Type == "array" || s.Type == "" && s.Items != nil:
		return b.buildArray(pb, s, raw)
	case s.Type == "":
		return &Primitive{kind: KindAny, format: s.Format, value: raw, raw: raw}, nil
	}

	if raw == nil {
		return nil, invalid(pb, raw, "expected %s, got null", s.Type)
	}
	var p *Primitive
	switch s.Type {
	case "integer":
		p, err = buildInteger(s, raw)
	case "number":
		p, err = buildNumber(s, raw)
	case "boolean":
		v, ok := raw.(bool)
		if !ok {
			err = fmt.Errorf("expected boolean, got %T", raw)
		}
		p = &Primitive{kind: KindBoolean, value: v, raw: v}
	case "string":
		p, err = buildString(s, raw)
	default:
		err = fmt.Errorf("unsupported type %q", s.Type)
	}
	if err != nil {
		return nil, invalid(pb, raw, "%s", err.Error())
	}
	if err := checkEnum(s, p.raw); err != nil {
		return nil, invalid(pb, raw, "%s", err.Error())
	}
	return p, nil
}

func buildInteger(s *spec.Schema, raw any) (*Primitive, error) {
	var n int64
	switch v := raw.(type) {
	case int, int8, int16, int32, int64:
		n = reflect.ValueOf(v).Int()
	case uint, uint8, uint16, uint32, uint64:
		u := reflect.ValueOf(v).Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", u)
		}
		n = int64(u)
	case float32, float64:
		f := reflect.ValueOf(v).Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("expected integer, got %v", v)
		}
		if f > math.MaxInt64 || f < math.MinInt64 {
			return nil, fmt.Errorf("integer %v overflows int64", v)
		}
		n = int64(f)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("expected integer, got %s", v)
		}
		n = i
	default:
		return nil, fmt.Errorf("expected integer, got %T", raw)
	}

	if s.Format == "int32" && (n > math.MaxInt32 || n < math.MinInt32) {
		return nil, fmt.Errorf("integer %d overflows int32", n)
	}
	return &Primitive{kind: KindInteger, format: s.Format, value: n, raw: n}, nil
}

func buildNumber(s *spec.Schema, raw any) (*Primitive, error) {
	var f float64
	switch v := raw.(type) {
	case int, int8, int16, int32, int64:
		f = float64(reflect.ValueOf(v).Int())
	case uint, uint8, uint16, uint32, uint64:
		f = float64(reflect.ValueOf(v).Uint())
	case float32, float64:
		f = reflect.ValueOf(v).Float()
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("expected number, got %s", v)
		}
		f = parsed
	default:
		return nil, fmt.Errorf("expected number, got %T", raw)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("number %v is not finite", f)
	}
	if s.Format == "float" && math.Abs(f) > math.MaxFloat32 {
		return nil, fmt.Errorf("number %v overflows float", f)
	}
	return &Primitive{kind: KindNumber, format: s.Format, value: f, raw: f}, nil
}

func buildString(s *spec.Schema, raw any) (*Primitive, error) {
	p := &Primitive{kind: KindString, format: s.Format}

	switch s.Format {
	case "date", "date-time":
		layout := time.RFC3339Nano
		if s.Format == "date" {
			layout = Date
		}
		switch v := raw.(type) {
		case time.Time:
			p.value, p.raw = v, v.Format(layout)
		case string:
			t, err := time.Parse(layout, v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s %q", s.Format, v)
			}
			p.value, p.raw = t, v
		default:
			return nil, fmt.Errorf("expected %s string, got %T", s.Format, raw)
		}
	case "byte":
		switch v := raw.(type) {
		case []byte:
			p.value, p.raw = v, base64.StdEncoding.EncodeToString(v)
		case string:
			data, err := base64.StdEncoding.DecodeString(v)
			if err != nil {
				return nil, fmt.Errorf("invalid base64 data: %w", err)
			}
			p.value, p.raw = data, v
		default:
			return nil, fmt.Errorf("expected base64 string, got %T", raw)
		}
	case "uuid":
		switch v := raw.(type) {
		case uuid.UUID:
			p.value, p.raw = v, v.String()
		case string:
			id, err := uuid.Parse(v)
			if err != nil {
				return nil, fmt.Errorf("invalid uuid %q", v)
			}
			p.value, p.raw = id, v
		default:
			return nil, fmt.Errorf("expected uuid string, got %T", raw)
		}
	default:
		v, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		if s.Format == "email" && !stringutil.IsValidEmail(v) {
			return nil, fmt.Errorf("invalid email %q", v)
		}
		p.value, p.raw = v, v
	}
	return p, nil
}

// checkEnum compares by wire form so YAML integers match JSON numbers.
func checkEnum(s *spec.Schema, raw any) error {
	if len(s.Enum) == 0 {
		return nil
	}
	want, err := cast.ToStringE(raw)
	if err != nil {
		return err
	}
	choices := make([]string, 0, len(s.Enum))
	for _, e := range s.Enum {
		c, err := cast.ToStringE(e)
		if err != nil {
			continue
		}
		if c == want {
			return nil
		}
		choices = append(choices, c)
	}
	return fmt.Errorf("value %q is not one of [%s]", want, strings.Join(choices, ", "))
}

func (b *Builder) buildArray(pb *pathutil.PathBuilder, s *spec.Schema, raw any) (Value, error) {
	items, ok := toSlice(raw)
	if !ok {
		return nil, invalid(pb, raw, "expected array, got %T", raw)
	}

	values := make([]Value, 0, len(items))
	rawItems := make([]any, 0, len(items))
	for i, item := range items {
		pb.PushIndex(i)
		v, err := b.build(pb, s.Items, item)
		pb.Pop()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		rawItems = append(rawItems, v.Raw())
	}
	return &Primitive{kind: KindArray, format: s.Format, value: values, raw: rawItems}, nil
}

func toSlice(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case nil, string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func toMap(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// candidate is one schema a model may be typed as, with its flattened chain.
type candidate struct {
	schema   *spec.Schema
	chain    []*spec.Schema
	required []string
}

func (b *Builder) candidate(s *spec.Schema) (candidate, error) {
	chain, err := b.resolver.Chain(s)
	if err != nil {
		return candidate{}, err
	}
	c := candidate{schema: s, chain: chain}
	for _, part := range chain {
		for _, name := range part.Required {
			if !slices.Contains(c.required, name) {
				c.required = append(c.required, name)
			}
		}
	}
	return c, nil
}

// missing lists the required fields m lacks. A nil value counts as absent.
func (c candidate) missing(m map[string]any) []string {
	var out []string
	for _, name := range c.required {
		if v, ok := m[name]; !ok || v == nil {
			out = append(out, name)
		}
	}
	return out
}

func (c candidate) discriminator() string {
	for i := len(c.chain) - 1; i >= 0; i-- {
		if d := c.chain[i].Discriminator; d != "" {
			return d
		}
	}
	return ""
}

// candidates lists s's known subtypes, most derived first, followed by s.
func (b *Builder) candidates(s *spec.Schema) ([]candidate, error) {
	subs, err := b.resolver.Subtypes(s)
	if err != nil {
		return nil, err
	}
	out := make([]candidate, 0, len(subs)+1)
	for _, sub := range append(subs, s) {
		c, err := b.candidate(sub)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (b *Builder) buildModel(pb *pathutil.PathBuilder, s *spec.Schema, raw any) (Value, error) {
	m, ok := toMap(raw)
	if !ok {
		return nil, invalid(pb, raw, "expected object, got %T", raw)
	}

	cands, err := b.candidates(s)
	if err != nil {
		return nil, &oaserrors.ValidationError{Path: pb.String(), Message: "schema cannot be resolved", Cause: err}
	}
	root := cands[len(cands)-1]

	// An explicit discriminator value narrows the choice to the named type.
	if prop := root.discriminator(); prop != "" {
		if name, ok := m[prop].(string); ok {
			for _, c := range cands {
				if c.schema.Name == name {
					cands = []candidate{c}
					break
				}
			}
		}
	}

	var selected *candidate
	for i := range cands {
		if len(cands[i].missing(m)) == 0 {
			selected = &cands[i]
			break
		}
	}
	if selected == nil {
		last := cands[len(cands)-1]
		return nil, invalid(pb, raw, "missing required fields [%s] of %s",
			strings.Join(last.missing(m), ", "), typeName(last.schema))
	}

	model := &Model{
		schema:  selected.schema,
		subType: selected.schema.Name,
		fields:  make(map[string]Value),
	}
	props := make(map[string]*spec.Schema)
	for _, part := range selected.chain {
		for _, name := range part.PropertyNames {
			if _, seen := props[name]; seen {
				continue
			}
			props[name] = part.Properties[name]
			model.declared = append(model.declared, name)
		}
	}

	for _, name := range model.declared {
		v, ok := m[name]
		if !ok || v == nil {
			continue
		}
		pb.Push(name)
		built, err := b.build(pb, props[name], v)
		pb.Pop()
		if err != nil {
			return nil, err
		}
		model.fields[name] = built
	}
	return model, nil
}

func typeName(s *spec.Schema) string {
	if s.Name != "" {
		return s.Name
	}
	return s.Pointer.String()
}
