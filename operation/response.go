package operation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/erraggy/oasbind/internal/httputil"
	"github.com/erraggy/oasbind/oaserrors"
	"github.com/erraggy/oasbind/primitive"
	"github.com/erraggy/oasbind/spec"
)

// RawResponse is what a transport received.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Result is a parsed response.
type Result struct {
	StatusCode int
	Header     http.Header
	// Raw is the unmodified body.
	Raw []byte
	// Key is the response key that matched the status ("200", "4XX",
	// "default"), or "" when none did.
	Key string
	// Response is the matched response declaration, or nil.
	Response *spec.Response
	// Data is the body built against the matched schema. It is nil when no
	// schema applies or the body is empty.
	Data primitive.Value
}

// Response parses replies to one bound request. It holds no state of its
// own and can parse any number of responses.
type Response struct {
	op *Operation
}

// Operation returns the operation the response belongs to.
func (r *Response) Operation() *Operation { return r.op }

// Match returns the declared response for a status code, trying the exact
// code, then its class ("4XX"), then "default". It returns "" and nil when
// the operation declares none of them.
func (r *Response) Match(status int) (string, *spec.Response, error) {
	for _, key := range httputil.StatusCandidates(status) {
		decl, ok := r.op.spec.Responses[key]
		if !ok {
			continue
		}
		resolved, err := r.op.resolver.DerefResponse(decl)
		if err != nil {
			return "", nil, err
		}
		return key, resolved, nil
	}
	return "", nil, nil
}

// Parse types the body of raw against the schema of the matching response.
// Bodies with no applicable schema are kept in Result.Raw only. A body that
// does not fit its schema fails with *oaserrors.ValidationError.
func (r *Response) Parse(raw *RawResponse) (*Result, error) {
	if raw == nil {
		return nil, &oaserrors.ValidationError{Field: "response", Message: "response is nil"}
	}

	res := &Result{
		StatusCode: raw.StatusCode,
		Header:     raw.Header,
		Raw:        raw.Body,
	}
	key, decl, err := r.Match(raw.StatusCode)
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", r.op.ID(), err)
	}
	res.Key, res.Response = key, decl
	if decl == nil || decl.Schema == nil || len(raw.Body) == 0 {
		return res, nil
	}

	schema, err := r.op.resolver.DerefSchema(decl.Schema)
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", r.op.ID(), err)
	}
	value, err := decodeBody(raw, schema)
	if err != nil {
		return nil, &oaserrors.ValidationError{Path: "response", Message: "body cannot be decoded", Cause: err}
	}
	res.Data, err = r.op.builder.BuildAt("response", schema, value)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// decodeBody returns the JSON-compatible form of a body. Text bodies typed
// as strings are used as is; everything else is decoded as JSON, keeping
// numbers exact.
func decodeBody(raw *RawResponse, s *spec.Schema) (any, error) {
	contentType := ""
	if raw.Header != nil {
		contentType = raw.Header.Get("Content-Type")
	}
	if s.Type == "string" && !httputil.IsJSONMediaType(contentType) {
		return string(raw.Body), nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
