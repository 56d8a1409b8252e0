package spec

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/erraggy/oasbind/document"
	"github.com/erraggy/oasbind/internal/httputil"
	"github.com/erraggy/oasbind/internal/maputil"
	"github.com/erraggy/oasbind/oaserrors"
)

// MaxRefDepth is the maximum number of $ref hops a chain may take before
// dereferencing gives up. This guards against pathological, non-circular chains.
const MaxRefDepth = 100

// Resolver turns pointers into typed nodes.
//
// Resolution is lazy: nothing is built until a pointer is requested, and only
// the subgraph reachable from that pointer is built then. Every node is cached
// under its canonical pointer and never replaced, so resolving the same
// pointer twice (directly or through any chain of references) yields the same
// Go value. A Resolver is safe for concurrent use.
type Resolver struct {
	store       *document.Store
	logger      Logger
	maxRefDepth int

	mu    sync.Mutex
	cache map[string]Node
	// raws holds untyped views. They live apart from cache so a location
	// can be viewed untyped and still be resolved as a typed node.
	raws map[string]*Raw
	// fresh holds the keys added by the call in progress so a failed call
	// leaves no half-built nodes behind.
	fresh []string
	// merging holds the path items whose template merge is in progress.
	merging  map[string]bool
	subtypes map[*Schema][]*Schema
	root     *Root
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(l Logger) Option {
	return func(r *Resolver) error {
		if l == nil {
			l = NopLogger{}
		}
		r.logger = l
		return nil
	}
}

// WithMaxRefDepth overrides MaxRefDepth.
func WithMaxRefDepth(n int) Option {
	return func(r *Resolver) error {
		if n <= 0 {
			return &oaserrors.ConfigError{
				Option:  "max ref depth",
				Value:   n,
				Message: "must be positive",
			}
		}
		r.maxRefDepth = n
		return nil
	}
}

// NewResolver creates a Resolver over the documents of store.
// The store must already hold its main document.
func NewResolver(store *document.Store, opts ...Option) (*Resolver, error) {
	if store == nil || store.Main() == nil {
		return nil, &oaserrors.ConfigError{Option: "store", Message: "a store with a main document is required"}
	}
	r := &Resolver{
		store:       store,
		logger:      NopLogger{},
		maxRefDepth: MaxRefDepth,
		cache:       make(map[string]Node),
		raws:        make(map[string]*Raw),
		merging:     make(map[string]bool),
		subtypes:    make(map[*Schema][]*Schema),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Store returns the document store the resolver reads from.
func (r *Resolver) Store() *document.Store { return r.store }

// Logger returns the resolver's logger.
func (r *Resolver) Logger() Logger { return r.logger }

// MaxDepth returns the configured reference depth limit.
func (r *Resolver) MaxDepth() int { return r.maxRefDepth }

// canonical anchors a parsed pointer to the main document.
func (r *Resolver) canonical(p document.Pointer) (document.Pointer, error) {
	return p.Against(document.Pointer{Base: r.store.Main().Locator})
}

func (r *Resolver) parse(ref string) (document.Pointer, error) {
	p, err := document.ParsePointer(ref)
	if err != nil {
		return document.Pointer{}, err
	}
	return r.canonical(p)
}

// do runs fn under the resolver lock. When fn fails, every node it cached
// is dropped again.
func (r *Resolver) do(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fresh = r.fresh[:0]
	err := fn()
	if err != nil {
		for _, key := range r.fresh {
			delete(r.cache, key)
		}
		clear(r.merging)
	}
	r.fresh = r.fresh[:0]
	return err
}

func (r *Resolver) put(key string, n Node) {
	r.cache[key] = n
	r.fresh = append(r.fresh, key)
}

func (r *Resolver) mapAt(p document.Pointer, want kind) (map[string]any, error) {
	raw, err := r.store.Lookup(p)
	if err != nil {
		return nil, err
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &oaserrors.ResolutionError{
			Ref:      "#" + p.Fragment,
			Document: p.Base,
			Message:  fmt.Sprintf("a %s must be a mapping, got %T", want, raw),
		}
	}
	return m, nil
}

// targetOf anchors a $ref found in the node at from.
func (r *Resolver) targetOf(from document.Pointer, ref string) (document.Pointer, error) {
	p, err := document.ParsePointer(ref)
	if err != nil {
		return document.Pointer{}, err
	}
	return p.Against(from)
}

// Resolve returns the node addressed by ref. The empty reference is rejected
// with *oaserrors.InvalidReferenceError; an unknown location fails with
// *oaserrors.ResolutionError.
func (r *Resolver) Resolve(ref string) (Node, error) {
	p, err := r.parse(ref)
	if err != nil {
		return nil, err
	}
	return r.ResolvePointer(&p)
}

// ResolvePointer is like Resolve for an already parsed pointer.
// A nil pointer is rejected with *oaserrors.InvalidReferenceError.
func (r *Resolver) ResolvePointer(p *document.Pointer) (Node, error) {
	if p == nil {
		return nil, &oaserrors.InvalidReferenceError{Message: "pointer is nil"}
	}
	cp, err := r.canonical(*p)
	if err != nil {
		return nil, err
	}
	var n Node
	err = r.do(func() error {
		var err error
		n, err = r.nodeLocked(cp)
		return err
	})
	return n, err
}

// ResolveSchema returns the schema addressed by ref.
func (r *Resolver) ResolveSchema(ref string) (*Schema, error) {
	p, err := r.parse(ref)
	if err != nil {
		return nil, err
	}
	var s *Schema
	err = r.do(func() error {
		var err error
		s, err = r.schemaLocked(p)
		return err
	})
	return s, err
}

// ResolvePathItem returns the merged path item addressed by ref.
func (r *Resolver) ResolvePathItem(ref string) (*PathItem, error) {
	p, err := r.parse(ref)
	if err != nil {
		return nil, err
	}
	var item *PathItem
	err = r.do(func() error {
		var err error
		item, err = r.pathItemLocked(p)
		return err
	})
	return item, err
}

// ResolveOperation returns the operation addressed by ref.
func (r *Resolver) ResolveOperation(ref string) (*Operation, error) {
	p, err := r.parse(ref)
	if err != nil {
		return nil, err
	}
	var op *Operation
	err = r.do(func() error {
		var err error
		op, err = r.operationLocked(p)
		return err
	})
	return op, err
}

// ResolveParameter returns the parameter addressed by ref.
func (r *Resolver) ResolveParameter(ref string) (*Parameter, error) {
	p, err := r.parse(ref)
	if err != nil {
		return nil, err
	}
	var prm *Parameter
	err = r.do(func() error {
		var err error
		prm, err = r.parameterLocked(p)
		return err
	})
	return prm, err
}

// ResolveResponse returns the response addressed by ref.
func (r *Resolver) ResolveResponse(ref string) (*Response, error) {
	p, err := r.parse(ref)
	if err != nil {
		return nil, err
	}
	var resp *Response
	err = r.do(func() error {
		var err error
		resp, err = r.responseLocked(p)
		return err
	})
	return resp, err
}

func (r *Resolver) nodeLocked(p document.Pointer) (Node, error) {
	k := classify(p.Tokens())
	if k == kindRaw {
		return r.rawLocked(p)
	}
	if n, ok := r.cache[p.String()]; ok {
		return n, nil
	}

	r.logger.Debug("resolving node", "ref", p.String(), "kind", k.String())
	var (
		n   Node
		err error
	)
	switch k {
	case kindPathItem:
		n, err = asNode(r.pathItemLocked(p))
	case kindOperation:
		n, err = asNode(r.operationLocked(p))
	case kindParameter:
		n, err = asNode(r.parameterLocked(p))
	case kindResponse:
		n, err = asNode(r.responseLocked(p))
	case kindSchema:
		n, err = asNode(r.schemaLocked(p))
	}
	return n, err
}

// asNode keeps a failed typed lookup from surfacing as a non-nil Node
// holding a nil pointer.
func asNode[T Node](n T, err error) (Node, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}

// rawLocked returns the untyped view of p. Views are never built from
// partial state, so they are not rolled back with a failed call.
func (r *Resolver) rawLocked(p document.Pointer) (Node, error) {
	key := p.String()
	if n, ok := r.raws[key]; ok {
		return n, nil
	}
	raw, err := r.store.Lookup(p)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("resolving node", "ref", key, "kind", kindRaw.String())
	n := &Raw{Pointer: p, Value: raw}
	r.raws[key] = n
	return n, nil
}

func lookupCached[T Node](r *Resolver, key string, want kind) (T, bool, error) {
	var zero T
	n, ok := r.cache[key]
	if !ok {
		return zero, false, nil
	}
	t, ok := n.(T)
	if !ok {
		return zero, true, mismatch(key, want, n)
	}
	return t, true, nil
}

func (r *Resolver) pathItemLocked(p document.Pointer) (*PathItem, error) {
	key := p.String()
	if item, ok, err := lookupCached[*PathItem](r, key, kindPathItem); ok {
		return item, err
	}
	m, err := r.mapAt(p, kindPathItem)
	if err != nil {
		return nil, err
	}

	item := &PathItem{
		Pointer:     p,
		Summary:     stringField(m, "summary"),
		Description: stringField(m, "description"),
		Operations:  make(map[string]*Operation),
	}
	if tokens := p.Tokens(); len(tokens) == 2 && tokens[0] == "paths" {
		item.Path = tokens[1]
	}
	r.put(key, item)
	r.merging[key] = true
	defer delete(r.merging, key)

	if item.Parameters, err = r.parameterList(p, m); err != nil {
		return nil, err
	}
	for _, method := range httputil.Methods {
		if _, ok := m[method].(map[string]any); !ok {
			continue
		}
		op, err := r.operationLocked(p.Child(method))
		if err != nil {
			return nil, err
		}
		item.Operations[method] = op
	}

	ref, ok := m["$ref"].(string)
	if !ok {
		return item, nil
	}
	item.Ref = ref
	target, err := r.targetOf(p, ref)
	if err != nil {
		return nil, err
	}
	if r.merging[target.String()] {
		return nil, &oaserrors.ResolutionError{
			Ref:        ref,
			Document:   p.Base,
			IsCircular: true,
			Message:    "path item template refers back to " + key,
		}
	}
	tmpl, err := r.pathItemLocked(target)
	if err != nil {
		return nil, err
	}
	item.Template = tmpl
	mergePathItem(item, tmpl)
	r.logger.Debug("merged path item template", "path", key, "template", target.String())
	return item, nil
}

// mergePathItem fills the fields dst leaves unset from its template.
// Inherited operations are shared with the template.
func mergePathItem(dst, tmpl *PathItem) {
	if dst.Summary == "" {
		dst.Summary = tmpl.Summary
	}
	if dst.Description == "" {
		dst.Description = tmpl.Description
	}
	if len(dst.Parameters) == 0 && len(tmpl.Parameters) > 0 {
		dst.Parameters = slices.Clone(tmpl.Parameters)
	}
	for method, op := range tmpl.Operations {
		if _, ok := dst.Operations[method]; !ok {
			dst.Operations[method] = op
		}
	}
}

func (r *Resolver) parameterList(p document.Pointer, m map[string]any) ([]*Parameter, error) {
	items, ok := m["parameters"].([]any)
	if !ok {
		return nil, nil
	}
	out := make([]*Parameter, 0, len(items))
	for i := range items {
		prm, err := r.parameterLocked(p.Child("parameters", strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out = append(out, prm)
	}
	return out, nil
}

func (r *Resolver) operationLocked(p document.Pointer) (*Operation, error) {
	key := p.String()
	if op, ok, err := lookupCached[*Operation](r, key, kindOperation); ok {
		return op, err
	}
	m, err := r.mapAt(p, kindOperation)
	if err != nil {
		return nil, err
	}

	op := &Operation{
		Pointer:     p,
		Method:      p.Last(),
		ID:          stringField(m, "operationId"),
		Summary:     stringField(m, "summary"),
		Description: stringField(m, "description"),
		Tags:        stringsField(m, "tags"),
		Deprecated:  boolField(m, "deprecated"),
		Consumes:    stringsField(m, "consumes"),
		Produces:    stringsField(m, "produces"),
		Schemes:     stringsField(m, "schemes"),
		Responses:   make(map[string]*Response),
	}
	r.put(key, op)

	if op.Parameters, err = r.parameterList(p, m); err != nil {
		return nil, err
	}
	if responses, ok := m["responses"].(map[string]any); ok {
		for _, code := range maputil.SortedKeys(responses) {
			if strings.HasPrefix(code, "x-") || !httputil.ValidateStatusCode(code) {
				continue
			}
			resp, err := r.responseLocked(p.Child("responses", code))
			if err != nil {
				return nil, err
			}
			op.Responses[code] = resp
		}
	}
	return op, nil
}

func (r *Resolver) parameterLocked(p document.Pointer) (*Parameter, error) {
	key := p.String()
	if prm, ok, err := lookupCached[*Parameter](r, key, kindParameter); ok {
		return prm, err
	}
	m, err := r.mapAt(p, kindParameter)
	if err != nil {
		return nil, err
	}

	prm := &Parameter{Pointer: p}
	r.put(key, prm)

	if ref, ok := m["$ref"].(string); ok {
		target, err := r.targetOf(p, ref)
		if err != nil {
			return nil, err
		}
		prm.Ref = ref
		if prm.Target, err = r.parameterLocked(target); err != nil {
			return nil, err
		}
		return prm, nil
	}

	prm.Name = stringField(m, "name")
	prm.In = stringField(m, "in")
	prm.Description = stringField(m, "description")
	prm.Required = boolField(m, "required")
	prm.CollectionFormat = stringField(m, "collectionFormat")
	prm.AllowEmptyValue = boolField(m, "allowEmptyValue")

	if _, ok := m["schema"].(map[string]any); ok {
		if prm.Schema, err = r.schemaLocked(p.Child("schema")); err != nil {
			return nil, err
		}
		return prm, nil
	}
	// Non-body parameters carry their type inline. The synthesised schema
	// shares the parameter's pointer and is not cached on its own.
	prm.Schema = &Schema{Pointer: p}
	if err := r.fillSchema(prm.Schema, m); err != nil {
		return nil, err
	}
	return prm, nil
}

func (r *Resolver) responseLocked(p document.Pointer) (*Response, error) {
	key := p.String()
	if resp, ok, err := lookupCached[*Response](r, key, kindResponse); ok {
		return resp, err
	}
	m, err := r.mapAt(p, kindResponse)
	if err != nil {
		return nil, err
	}

	resp := &Response{Pointer: p}
	r.put(key, resp)

	if ref, ok := m["$ref"].(string); ok {
		target, err := r.targetOf(p, ref)
		if err != nil {
			return nil, err
		}
		resp.Ref = ref
		if resp.Target, err = r.responseLocked(target); err != nil {
			return nil, err
		}
		return resp, nil
	}

	resp.Description = stringField(m, "description")
	if _, ok := m["schema"].(map[string]any); ok {
		if resp.Schema, err = r.schemaLocked(p.Child("schema")); err != nil {
			return nil, err
		}
	}
	if headers, ok := m["headers"].(map[string]any); ok {
		resp.Headers = make(map[string]*Schema, len(headers))
		for _, name := range maputil.SortedKeys(headers) {
			h, err := r.schemaLocked(p.Child("headers", name))
			if err != nil {
				return nil, err
			}
			resp.Headers[name] = h
		}
	}
	return resp, nil
}

func (r *Resolver) schemaLocked(p document.Pointer) (*Schema, error) {
	key := p.String()
	if s, ok, err := lookupCached[*Schema](r, key, kindSchema); ok {
		return s, err
	}
	m, err := r.mapAt(p, kindSchema)
	if err != nil {
		return nil, err
	}

	s := &Schema{Pointer: p, Name: definitionName(p)}
	r.put(key, s)
	if err := r.fillSchema(s, m); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Resolver) fillSchema(s *Schema, m map[string]any) error {
	p := s.Pointer
	if ref, ok := m["$ref"].(string); ok {
		target, err := r.targetOf(p, ref)
		if err != nil {
			return err
		}
		s.Ref = ref
		s.Target, err = r.schemaLocked(target)
		return err
	}

	s.Type = typeField(m)
	s.Format = stringField(m, "format")
	s.Required = stringsField(m, "required")
	s.ReadOnly = boolField(m, "readOnly")
	if enum, ok := m["enum"].([]any); ok {
		s.Enum = enum
	}
	if def, ok := m["default"]; ok {
		s.Default = def
		s.HasDefault = true
	}
	switch d := m["discriminator"].(type) {
	case string:
		s.Discriminator = d
	case map[string]any:
		s.Discriminator = stringField(d, "propertyName")
	}

	if props, ok := m["properties"].(map[string]any); ok {
		s.PropertyNames = maputil.SortedKeys(props)
		s.Properties = make(map[string]*Schema, len(props))
		for _, name := range s.PropertyNames {
			child, err := r.schemaLocked(p.Child("properties", name))
			if err != nil {
				return err
			}
			s.Properties[name] = child
		}
	}

	var err error
	switch items := m["items"].(type) {
	case map[string]any:
		s.Items, err = r.schemaLocked(p.Child("items"))
	case []any:
		if len(items) > 0 {
			s.Items, err = r.schemaLocked(p.Child("items", "0"))
		}
	}
	if err != nil {
		return err
	}

	if allOf, ok := m["allOf"].([]any); ok {
		s.AllOf = make([]*Schema, 0, len(allOf))
		for i := range allOf {
			parent, err := r.schemaLocked(p.Child("allOf", strconv.Itoa(i)))
			if err != nil {
				return err
			}
			s.AllOf = append(s.AllOf, parent)
		}
	}
	return nil
}

// Root returns the top-level fields of the main document.
func (r *Resolver) Root() *Root {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root != nil {
		return r.root
	}

	m := r.store.Main().Root
	root := &Root{
		Swagger:  stringField(m, "swagger"),
		Host:     stringField(m, "host"),
		BasePath: stringField(m, "basePath"),
		Schemes:  stringsField(m, "schemes"),
		Consumes: stringsField(m, "consumes"),
		Produces: stringsField(m, "produces"),
	}
	if paths, ok := m["paths"].(map[string]any); ok {
		for _, path := range maputil.SortedKeys(paths) {
			if len(path) > 0 && path[0] == '/' {
				root.Paths = append(root.Paths, path)
			}
		}
	}
	r.root = root
	return root
}
