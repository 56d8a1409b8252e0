package operation

import (
	"net/http"
	"strings"

	"github.com/erraggy/oasbind/internal/maputil"
)

// Headers are extra headers merged into a request when it is prepared.
// Two forms exist:
//
//   - [HeaderMap] holds one value per name. Each entry replaces the
//     request's own value for that name.
//   - [HeaderPairs] is an ordered list that may repeat a name. The listed
//     values replace the request's own values for each name they mention,
//     and are sent as separate header lines unless
//     [PrepareOptions.JoinHeaders] is set.
type Headers interface {
	mergeInto(h http.Header)
}

// HeaderMap is the single-valued header form.
type HeaderMap map[string]string

func (m HeaderMap) mergeInto(h http.Header) {
	for _, name := range maputil.SortedKeys(m) {
		h.Set(name, m[name])
	}
}

// HeaderPair is one header line.
type HeaderPair struct {
	Name  string
	Value string
}

// HeaderPairs is the ordered, multi-valued header form.
type HeaderPairs []HeaderPair

// Pairs builds HeaderPairs from alternating names and values. A trailing
// name without a value is ignored.
func Pairs(kv ...string) HeaderPairs {
	out := make(HeaderPairs, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, HeaderPair{Name: kv[i], Value: kv[i+1]})
	}
	return out
}

func (p HeaderPairs) mergeInto(h http.Header) {
	replaced := make(map[string]bool, len(p))
	for _, pair := range p {
		name := http.CanonicalHeaderKey(pair.Name)
		if !replaced[name] {
			h.Del(name)
			replaced[name] = true
		}
		h.Add(name, pair.Value)
	}
}

// joinValues collapses every multi-valued header into one comma-separated line.
func joinValues(h http.Header) {
	for name, values := range h {
		if len(values) > 1 {
			h[name] = []string{strings.Join(values, ",")}
		}
	}
}
