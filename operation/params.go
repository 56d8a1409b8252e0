package operation

import (
	"fmt"
	"strings"

	"github.com/erraggy/oasbind/primitive"
	"github.com/erraggy/oasbind/spec"
)

// Collection formats for array parameters.
//
// | Format | Separator        | Example     |
// |--------|------------------|-------------|
// | csv    | comma (default)  | a,b,c       |
// | ssv    | space            | a b c       |
// | tsv    | tab              | a\tb\tc     |
// | pipes  | pipe             | a|b|c       |
// | multi  | repeated field   | k=a&k=b&k=c |
const (
	CollectionCSV   = "csv"
	CollectionSSV   = "ssv"
	CollectionTSV   = "tsv"
	CollectionPipes = "pipes"
	CollectionMulti = "multi"
)

// separator returns the join string of a collection format. multi has none.
func separator(format string) (string, error) {
	switch format {
	case "", CollectionCSV:
		return ",", nil
	case CollectionSSV:
		return " ", nil
	case CollectionTSV:
		return "\t", nil
	case CollectionPipes:
		return "|", nil
	case CollectionMulti:
		return "", nil
	}
	return "", fmt.Errorf("unknown collection format %q", format)
}

// serialize renders v as the wire values of parameter p. The result has one
// element except for multi-format arrays in query or form parameters, which
// repeat the parameter once per item.
func serialize(p *spec.Parameter, v primitive.Value) ([]string, error) {
	if v.Kind() != primitive.KindArray {
		s, err := primitive.Stringify(v)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}

	items, err := primitive.StringifyItems(v)
	if err != nil {
		return nil, err
	}
	sep, err := separator(p.CollectionFormat)
	if err != nil {
		return nil, err
	}
	if p.CollectionFormat == CollectionMulti {
		if p.In == "query" || p.In == "formData" {
			return items, nil
		}
		// multi is only meaningful where a name may repeat.
		sep = ","
	}
	return []string{strings.Join(items, sep)}, nil
}
