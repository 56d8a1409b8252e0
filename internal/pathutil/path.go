package pathutil

import (
	"net/url"
	"regexp"
)

// PathParamRegex matches path template parameters like {paramName}.
// It captures the parameter name inside the braces.
var PathParamRegex = regexp.MustCompile(`\{([^}]+)\}`)

// Expand substitutes path parameters into template. Each value is escaped as
// a single path segment. Names without a value are left in place and
// returned in missing.
func Expand(template string, values map[string]string) (expanded string, missing []string) {
	expanded = PathParamRegex.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := values[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return url.PathEscape(v)
	})
	return expanded, missing
}
