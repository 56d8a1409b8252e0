package spec

import (
	"fmt"
	"strconv"

	"github.com/erraggy/oasbind/document"
	"github.com/erraggy/oasbind/internal/httputil"
	"github.com/erraggy/oasbind/oaserrors"
)

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func stringsField(m map[string]any, key string) []string {
	items, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// typeField reads "type", which OAS 3.1 also allows as a list.
// The first non-null entry of a list wins.
func typeField(m map[string]any) string {
	switch t := m["type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

func isIndex(token string) bool {
	n, err := strconv.Atoi(token)
	return err == nil && n >= 0
}

// definitionName returns the name a schema is declared under, if the
// pointer addresses an entry of definitions or components/schemas.
func definitionName(p document.Pointer) string {
	tokens := p.Tokens()
	switch {
	case len(tokens) == 2 && tokens[0] == "definitions":
		return tokens[1]
	case len(tokens) == 3 && tokens[0] == "components" && tokens[1] == "schemas":
		return tokens[2]
	}
	return ""
}

type kind int

const (
	kindRaw kind = iota
	kindPathItem
	kindOperation
	kindParameter
	kindResponse
	kindSchema
)

func (k kind) String() string {
	switch k {
	case kindPathItem:
		return "path item"
	case kindOperation:
		return "operation"
	case kindParameter:
		return "parameter"
	case kindResponse:
		return "response"
	case kindSchema:
		return "schema"
	default:
		return "raw"
	}
}

// classify infers the node type from where a pointer lands in a document.
func classify(tokens []string) kind {
	n := len(tokens)
	switch {
	case n == 2 && tokens[0] == "paths":
		return kindPathItem
	case n == 3 && tokens[0] == "paths" && httputil.IsMethod(tokens[2]):
		return kindOperation
	case n == 2 && tokens[0] == "definitions",
		n == 3 && tokens[0] == "components" && tokens[1] == "schemas":
		return kindSchema
	case n == 2 && tokens[0] == "parameters",
		n == 3 && tokens[0] == "components" && tokens[1] == "parameters":
		return kindParameter
	case n == 2 && tokens[0] == "responses",
		n == 3 && tokens[0] == "components" && tokens[1] == "responses":
		return kindResponse
	}
	if n < 2 {
		return kindRaw
	}

	parent, last := tokens[n-2], tokens[n-1]
	switch {
	case parent == "parameters" && isIndex(last):
		return kindParameter
	case parent == "responses" && tokens[0] == "paths":
		return kindResponse
	case parent == "properties", parent == "allOf":
		return kindSchema
	case last == "schema", last == "items":
		return kindSchema
	}
	return kindRaw
}

func mismatch(key string, want kind, got Node) error {
	return &oaserrors.ResolutionError{
		Ref:     key,
		Message: fmt.Sprintf("node was resolved as %T, not as a %s", got, want),
	}
}
