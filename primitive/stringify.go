package primitive

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cast"
)

// Stringify renders a value the way it travels in a path segment, query
// string, header or form field. Arrays are not joined here; callers apply
// the parameter's collection format to Items themselves. Models render as
// compact JSON.
func Stringify(v Value) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case *Model:
		data, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case *File:
		return string(t.Data), nil
	case *Primitive:
		if t.kind == KindArray {
			return "", fmt.Errorf("array values need a collection format")
		}
		switch raw := t.raw.(type) {
		case float64:
			return strconv.FormatFloat(raw, 'f', -1, 64), nil
		case map[string]any, []any:
			data, err := json.Marshal(raw)
			if err != nil {
				return "", err
			}
			return string(data), nil
		}
		return cast.ToStringE(t.raw)
	}
	return cast.ToStringE(v.Raw())
}

// StringifyItems renders each element of an array value.
func StringifyItems(v Value) ([]string, error) {
	p, ok := v.(*Primitive)
	if !ok || p.kind != KindArray {
		s, err := Stringify(v)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	out := make([]string, 0, len(p.Items()))
	for _, item := range p.Items() {
		s, err := Stringify(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
