package spec

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/erraggy/oasbind/document"
	"github.com/erraggy/oasbind/internal/maputil"
	"github.com/erraggy/oasbind/oaserrors"
)

// Deref follows a chain of $ref nodes to the first node that is not a
// reference. Nodes that are not references are returned unchanged.
// A chain that revisits a node fails with a circular *oaserrors.ResolutionError,
// and a chain longer than the configured depth limit fails as well.
func (r *Resolver) Deref(n Node) (Node, error) {
	if n == nil {
		return nil, &oaserrors.InvalidReferenceError{Message: "node is nil"}
	}

	seen := make(map[string]bool)
	cur := n
	for depth := 0; ; depth++ {
		rn, ok := cur.(referrer)
		if !ok {
			return cur, nil
		}
		ref, next := rn.reference()
		if ref == "" {
			return cur, nil
		}

		key := cur.Ptr().String()
		if seen[key] {
			return nil, &oaserrors.ResolutionError{
				Ref:        ref,
				Document:   cur.Ptr().Base,
				IsCircular: true,
				Message:    "reference chain starting at " + n.Ptr().String() + " revisits " + key,
			}
		}
		seen[key] = true
		if depth >= r.maxRefDepth {
			return nil, &oaserrors.ResolutionError{
				Ref:     ref,
				Message: fmt.Sprintf("reference chain too deep (limit: %d)", r.maxRefDepth),
			}
		}
		if next == nil {
			return nil, &oaserrors.ResolutionError{Ref: ref, Message: "reference target was not resolved"}
		}
		cur = next
	}
}

func derefAs[T Node](r *Resolver, n T) (T, error) {
	var zero T
	out, err := r.Deref(n)
	if err != nil {
		return zero, err
	}
	t, ok := out.(T)
	if !ok {
		return zero, &oaserrors.ResolutionError{
			Ref:     n.Ptr().String(),
			Message: fmt.Sprintf("reference resolves to %T, not %T", out, zero),
		}
	}
	return t, nil
}

// DerefSchema is Deref for schemas.
func (r *Resolver) DerefSchema(s *Schema) (*Schema, error) { return derefAs(r, s) }

// DerefParameter is Deref for parameters.
func (r *Resolver) DerefParameter(p *Parameter) (*Parameter, error) { return derefAs(r, p) }

// DerefResponse is Deref for responses.
func (r *Resolver) DerefResponse(resp *Response) (*Response, error) { return derefAs(r, resp) }

// EffectiveParameters returns the parameters an operation accepts when
// reached through item: the operation's own slots in declaration order,
// followed by the path-level parameters the operation does not override.
// A parameter is identified by its name and location. Every returned
// parameter is dereferenced.
func (r *Resolver) EffectiveParameters(item *PathItem, op *Operation) ([]*Parameter, error) {
	type slot struct{ name, in string }
	declared := make(map[slot]bool)
	out := make([]*Parameter, 0, len(op.Parameters)+len(item.Parameters))

	for _, prm := range op.Parameters {
		d, err := r.DerefParameter(prm)
		if err != nil {
			return nil, err
		}
		declared[slot{d.Name, d.In}] = true
		out = append(out, d)
	}
	for _, prm := range item.Parameters {
		d, err := r.DerefParameter(prm)
		if err != nil {
			return nil, err
		}
		if declared[slot{d.Name, d.In}] {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Chain returns the schemas that make up s through allOf, most general
// first and ending with s itself. Inline allOf members are included.
// Each schema appears once even when reached through several parents.
func (r *Resolver) Chain(s *Schema) ([]*Schema, error) {
	var out []*Schema
	seen := make(map[*Schema]bool)

	var walk func(x *Schema, depth int) error
	walk = func(x *Schema, depth int) error {
		if depth > r.maxRefDepth {
			return &oaserrors.ResolutionError{
				Ref:     x.Pointer.String(),
				Message: fmt.Sprintf("allOf chain too deep (limit: %d)", r.maxRefDepth),
			}
		}
		x, err := r.DerefSchema(x)
		if err != nil {
			return err
		}
		if seen[x] {
			return nil
		}
		seen[x] = true
		for _, parent := range x.AllOf {
			if err := walk(parent, depth+1); err != nil {
				return err
			}
		}
		out = append(out, x)
		return nil
	}

	if err := walk(s, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// depth is the length of the longest allOf path from s to a schema with
// no parents.
func (r *Resolver) depth(s *Schema, seen map[*Schema]bool) int {
	if seen[s] {
		return 0
	}
	seen[s] = true
	defer delete(seen, s)

	best := 0
	for _, parent := range s.AllOf {
		p, err := r.DerefSchema(parent)
		if err != nil {
			continue
		}
		if d := r.depth(p, seen) + 1; d > best {
			best = d
		}
	}
	return best
}

// Subtypes returns the named schemas of s's document whose allOf chain
// reaches s, most derived first and by name within the same depth.
func (r *Resolver) Subtypes(s *Schema) ([]*Schema, error) {
	base, err := r.DerefSchema(s)
	if err != nil {
		return nil, err
	}

	var out []*Schema
	err = r.do(func() error {
		if cached, ok := r.subtypes[base]; ok {
			out = cached
			return nil
		}

		defs, err := r.definitionsLocked(base.Pointer.Base)
		if err != nil {
			return err
		}
		type candidate struct {
			schema *Schema
			depth  int
		}
		var found []candidate
		for _, d := range defs {
			if d == base || !r.inherits(d, base, make(map[*Schema]bool)) {
				continue
			}
			found = append(found, candidate{d, r.depth(d, make(map[*Schema]bool))})
		}
		slices.SortStableFunc(found, func(a, b candidate) int {
			if c := cmp.Compare(b.depth, a.depth); c != 0 {
				return c
			}
			return cmp.Compare(a.schema.Name, b.schema.Name)
		})

		out = make([]*Schema, 0, len(found))
		for _, c := range found {
			out = append(out, c.schema)
		}
		r.subtypes[base] = out
		r.logger.Debug("discovered subtypes", "schema", base.Pointer.String(), "count", len(out))
		return nil
	})
	return out, err
}

func (r *Resolver) inherits(s, base *Schema, seen map[*Schema]bool) bool {
	if seen[s] {
		return false
	}
	seen[s] = true
	for _, parent := range s.AllOf {
		p, err := r.DerefSchema(parent)
		if err != nil {
			continue
		}
		if p == base || r.inherits(p, base, seen) {
			return true
		}
	}
	return false
}

// definitionsLocked resolves every named schema of one document, sorted by name.
func (r *Resolver) definitionsLocked(locator string) ([]*Schema, error) {
	doc, err := r.store.Get(locator)
	if err != nil {
		return nil, err
	}

	var out []*Schema
	collect := func(container map[string]any, prefix ...string) error {
		at := document.Pointer{Base: doc.Locator}.Child(prefix...)
		for _, name := range maputil.SortedKeys(container) {
			s, err := r.schemaLocked(at.Child(name))
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		return nil
	}

	if defs, ok := doc.Root["definitions"].(map[string]any); ok {
		if err := collect(defs, "definitions"); err != nil {
			return nil, err
		}
	}
	if components, ok := doc.Root["components"].(map[string]any); ok {
		if schemas, ok := components["schemas"].(map[string]any); ok {
			if err := collect(schemas, "components", "schemas"); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
