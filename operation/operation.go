package operation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/erraggy/oasbind/internal/httputil"
	"github.com/erraggy/oasbind/internal/maputil"
	"github.com/erraggy/oasbind/internal/pathutil"
	"github.com/erraggy/oasbind/oaserrors"
	"github.com/erraggy/oasbind/primitive"
	"github.com/erraggy/oasbind/spec"
)

// Args are the caller-supplied arguments of one call, keyed by parameter name.
type Args map[string]any

// Operation is a reusable template for one endpoint and method. It holds no
// per-call state: every Call produces a new, independent Request/Response pair.
type Operation struct {
	resolver *spec.Resolver
	builder  *primitive.Builder
	logger   spec.Logger

	spec   *spec.Operation
	item   *spec.PathItem
	root   *spec.Root
	method string
	params []*spec.Parameter
	byName map[string]*spec.Parameter
}

// New binds the operation declared for method on item. The path and method
// are taken from item, since the operation itself may be shared with other
// path items through a template.
func New(r *spec.Resolver, item *spec.PathItem, method string) (*Operation, error) {
	if r == nil {
		return nil, &oaserrors.ConfigError{Option: "resolver", Message: "resolver cannot be nil"}
	}
	if item == nil {
		return nil, &oaserrors.ConfigError{Option: "path item", Message: "path item cannot be nil"}
	}

	method = httputil.NormalizeMethod(method)
	op := item.Operation(method)
	if op == nil {
		return nil, &oaserrors.ResolutionError{
			Ref:     pathutil.OperationRef(item.Path, method),
			Message: "path item declares no such operation",
		}
	}

	params, err := r.EffectiveParameters(item, op)
	if err != nil {
		return nil, fmt.Errorf("operation %s %s: %w", strings.ToUpper(method), item.Path, err)
	}

	o := &Operation{
		resolver: r,
		builder:  primitive.NewBuilder(r),
		logger:   r.Logger(),
		spec:     op,
		item:     item,
		root:     r.Root(),
		method:   method,
		params:   params,
		byName:   make(map[string]*spec.Parameter, len(params)),
	}
	for _, p := range params {
		if _, dup := o.byName[p.Name]; dup {
			return nil, &oaserrors.ConfigError{
				Option:  "parameters",
				Value:   p.Name,
				Message: "operation " + o.ID() + " declares the parameter name in more than one location",
			}
		}
		o.byName[p.Name] = p
	}
	return o, nil
}

// ID returns the operationId, or "METHOD path" when none is declared.
func (o *Operation) ID() string {
	if o.spec.ID != "" {
		return o.spec.ID
	}
	return o.Method() + " " + o.item.Path
}

// Method returns the upper-case HTTP method.
func (o *Operation) Method() string { return strings.ToUpper(o.method) }

// Path returns the path template, e.g. "/pet/{petId}".
func (o *Operation) Path() string { return o.item.Path }

// Spec returns the resolved operation node.
func (o *Operation) Spec() *spec.Operation { return o.spec }

// Params returns the effective parameters in the order they are bound.
func (o *Operation) Params() []*spec.Parameter { return slices.Clone(o.params) }

// Param returns the effective parameter with the given name, or nil.
func (o *Operation) Param(name string) *spec.Parameter { return o.byName[name] }

// Consumes returns the media types the operation accepts, falling back to
// the document's top-level list.
func (o *Operation) Consumes() []string {
	if len(o.spec.Consumes) > 0 {
		return o.spec.Consumes
	}
	return o.root.Consumes
}

// Produces returns the media types the operation may respond with, falling
// back to the document's top-level list.
func (o *Operation) Produces() []string {
	if len(o.spec.Produces) > 0 {
		return o.spec.Produces
	}
	return o.root.Produces
}

func (o *Operation) scheme() string {
	schemes := o.spec.Schemes
	if len(schemes) == 0 {
		schemes = o.root.Schemes
	}
	if len(schemes) == 0 {
		return "http"
	}
	return schemes[0]
}

// Call binds args to the operation's parameters and returns the request to
// send and the response parser for its reply. No I/O is performed. Unknown
// argument names, missing required arguments and values that do not fit
// their schema fail with *oaserrors.ValidationError, and no request is
// returned.
func (o *Operation) Call(args Args) (*Request, *Response, error) {
	for _, name := range maputil.SortedKeys(args) {
		if _, ok := o.byName[name]; !ok {
			return nil, nil, &oaserrors.ValidationError{
				Field:   name,
				Value:   args[name],
				Message: "operation " + o.ID() + " has no such parameter",
			}
		}
	}

	b := &binding{
		path:   make(map[string]string),
		query:  url.Values{},
		header: http.Header{},
		form:   url.Values{},
	}
	for _, p := range o.params {
		raw, ok := args[p.Name]
		if !ok || raw == nil {
			switch {
			case p.Schema != nil && p.Schema.HasDefault:
				raw = p.Schema.Default
			case p.Required:
				return nil, nil, &oaserrors.ValidationError{
					Field:   p.Name,
					Message: "missing required " + p.In + " parameter",
				}
			default:
				continue
			}
		}
		if err := o.bind(b, p, raw); err != nil {
			return nil, nil, err
		}
	}

	req, err := o.newRequest(b)
	if err != nil {
		return nil, nil, err
	}
	o.logger.Debug("built request", "operation", o.ID(), "method", req.method, "path", req.path)
	return req, &Response{op: o}, nil
}

// binding collects parameter values by location while a call is bound.
type binding struct {
	path     map[string]string
	query    url.Values
	header   http.Header
	form     url.Values
	formKeys []string
	files    []filePart
	body     primitive.Value
	hasBody  bool
}

type filePart struct {
	param string
	file  *primitive.File
}

func (o *Operation) bind(b *binding, p *spec.Parameter, raw any) error {
	if p.In == "formData" && p.Schema != nil && p.Schema.Type == "file" {
		files, err := o.builder.BuildFiles(p.Name, raw)
		if err != nil {
			return err
		}
		for _, f := range files {
			b.files = append(b.files, filePart{param: p.Name, file: f})
		}
		return nil
	}

	v, err := o.builder.BuildAt(p.Name, p.Schema, raw)
	if err != nil {
		return err
	}
	if p.In == "body" {
		b.body, b.hasBody = v, true
		return nil
	}

	values, err := serialize(p, v)
	if err != nil {
		return &oaserrors.ValidationError{Field: p.Name, Value: raw, Message: "cannot be serialized", Cause: err}
	}
	switch p.In {
	case "path":
		b.path[p.Name] = strings.Join(values, ",")
	case "query":
		for _, s := range values {
			b.query.Add(p.Name, s)
		}
	case "header":
		b.header.Set(p.Name, strings.Join(values, ","))
	case "formData":
		if !b.form.Has(p.Name) {
			b.formKeys = append(b.formKeys, p.Name)
		}
		for _, s := range values {
			b.form.Add(p.Name, s)
		}
	default:
		return &oaserrors.ValidationError{Field: p.Name, Message: "unsupported parameter location " + p.In}
	}
	return nil
}

func (o *Operation) newRequest(b *binding) (*Request, error) {
	rendered, missing := pathutil.Expand(o.item.Path, b.path)
	if len(missing) > 0 {
		return nil, &oaserrors.ValidationError{
			Field:   missing[0],
			Message: "path template parameter has no value",
		}
	}

	req := &Request{
		op:       o,
		method:   o.Method(),
		scheme:   o.scheme(),
		host:     o.root.Host,
		basePath: o.root.BasePath,
		path:     rendered,
		query:    b.query,
		header:   b.header,
		accept:   slices.Clone(o.Produces()),
		value:    b.body,
	}
	if len(req.accept) > 0 {
		req.header.Set("Accept", strings.Join(req.accept, ", "))
	}

	var err error
	switch {
	case len(b.files) > 0 || (len(b.form) > 0 && o.consumes(httputil.MediaTypeMultipart)):
		req.boundary = "oasbind-" + strings.ReplaceAll(uuid.NewString(), "-", "")
		req.contentType = httputil.MediaTypeMultipart + "; boundary=" + req.boundary
		req.body, err = encodeMultipart(req.boundary, b.formKeys, b.form, b.files)
	case len(b.form) > 0:
		req.contentType = httputil.MediaTypeForm
		req.body = []byte(b.form.Encode())
	case b.hasBody:
		req.contentType = o.bodyMediaType()
		req.body, err = encodeBody(req.contentType, b.body)
	}
	if err != nil {
		return nil, &oaserrors.ValidationError{Field: "body", Message: "cannot be encoded", Cause: err}
	}
	if req.contentType != "" {
		req.header.Set("Content-Type", req.contentType)
	}
	return req, nil
}

func (o *Operation) consumes(mediaType string) bool {
	for _, mt := range o.Consumes() {
		if httputil.BaseMediaType(mt) == mediaType {
			return true
		}
	}
	return false
}

func (o *Operation) bodyMediaType() string {
	for _, mt := range o.Consumes() {
		if httputil.IsValidMediaType(mt) && !strings.Contains(mt, "*") {
			return mt
		}
	}
	return httputil.MediaTypeJSON
}

func encodeBody(contentType string, v primitive.Value) ([]byte, error) {
	if httputil.IsJSONMediaType(contentType) {
		return json.Marshal(v)
	}
	if f, ok := v.(*primitive.File); ok {
		return slices.Clone(f.Data), nil
	}
	if p, ok := v.(*primitive.Primitive); ok {
		if data, ok := p.Go().([]byte); ok {
			return slices.Clone(data), nil
		}
		if p.Kind() != primitive.KindArray && p.Kind() != primitive.KindAny {
			s, err := primitive.Stringify(p)
			return []byte(s), err
		}
	}
	return json.Marshal(v)
}
