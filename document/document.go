package document

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasbind/oaserrors"
)

// Document is an immutable tree of mappings (map[string]any), sequences
// ([]any) and scalars, identified by the locator it was loaded from.
type Document struct {
	Locator string
	Root    map[string]any
}

// New wraps an already decoded tree. Nested mappings with non-string keys are
// normalised so every mapping in the tree is a map[string]any.
func New(locator string, root map[string]any) *Document {
	normalized, _ := normalize(root).(map[string]any)
	if normalized == nil {
		normalized = map[string]any{}
	}
	return &Document{Locator: locator, Root: normalized}
}

// Parse decodes YAML or JSON data into a Document.
// The top-level node must be a mapping.
func Parse(locator string, data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &oaserrors.ParseError{Path: locator, Message: "failed to decode document", Cause: err}
	}

	root, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, &oaserrors.ParseError{
			Path:    locator,
			Message: fmt.Sprintf("document root must be a mapping, got %T", raw),
		}
	}
	return &Document{Locator: locator, Root: root}, nil
}

// Lookup returns the node addressed by a fragment ("/definitions/Pet").
// Mapping keys and sequence indices are both supported per RFC 6901.
func (d *Document) Lookup(fragment string) (any, error) {
	p := Pointer{Base: d.Locator, Fragment: strings.TrimPrefix(fragment, "#")}
	current := any(d.Root)
	tokens := p.Tokens()
	if tokens == nil && p.Fragment != "" {
		return nil, &oaserrors.ResolutionError{
			Ref:      "#" + p.Fragment,
			Document: d.Locator,
			Message:  "malformed fragment",
		}
	}

	for i, part := range tokens {
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, &oaserrors.ResolutionError{
					Ref:      "#/" + strings.Join(tokens[:i+1], "/"),
					Document: d.Locator,
					Message:  "missing key: " + part,
				}
			}
			current = next

		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 {
				return nil, &oaserrors.ResolutionError{
					Ref:      "#/" + strings.Join(tokens[:i+1], "/"),
					Document: d.Locator,
					Message:  fmt.Sprintf("invalid array index '%s' (must be a non-negative integer)", part),
				}
			}
			if index >= len(v) {
				return nil, &oaserrors.ResolutionError{
					Ref:      "#/" + strings.Join(tokens[:i+1], "/"),
					Document: d.Locator,
					Message:  fmt.Sprintf("array index %d out of bounds (length %d)", index, len(v)),
				}
			}
			current = v[index]

		default:
			return nil, &oaserrors.ResolutionError{
				Ref:      "#/" + strings.Join(tokens[:i], "/"),
				Document: d.Locator,
				Message:  fmt.Sprintf("cannot traverse into type %T", v),
			}
		}
	}

	return current, nil
}

// normalize converts map[any]any mappings (produced for non-string keys such
// as unquoted status codes) into map[string]any throughout the tree.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
