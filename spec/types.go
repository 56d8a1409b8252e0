package spec

import (
	"slices"

	"github.com/erraggy/oasbind/document"
	"github.com/erraggy/oasbind/internal/httputil"
)

// Node is a resolved node of an API description. Every node knows the
// canonical pointer it was resolved from; two nodes resolved from the same
// pointer through the same Resolver are the same Go value.
type Node interface {
	Ptr() document.Pointer
}

// referrer is implemented by nodes that may be a bare $ref to another node.
type referrer interface {
	Node
	reference() (string, Node)
}

// Raw is a node whose location has no dedicated type.
type Raw struct {
	Pointer document.Pointer
	Value   any
}

// Ptr implements Node.
func (r *Raw) Ptr() document.Pointer { return r.Pointer }

// Root holds the top-level fields of a Swagger 2.0 document that affect how
// requests are addressed and encoded.
type Root struct {
	Swagger  string
	Host     string
	BasePath string
	Schemes  []string
	Consumes []string
	Produces []string
	// Paths lists the path templates of the main document, sorted.
	Paths []string
}

// PathItem describes the operations available on a single path.
// A PathItem declared with a $ref to a template has already been merged:
// locally declared fields win and unset fields are inherited from the template.
type PathItem struct {
	Pointer     document.Pointer
	Path        string
	Ref         string
	Template    *PathItem
	Summary     string
	Description string
	Parameters  []*Parameter
	Operations  map[string]*Operation
}

// Ptr implements Node.
func (p *PathItem) Ptr() document.Pointer { return p.Pointer }

func (p *PathItem) reference() (string, Node) { return "", nil }

// Operation returns the operation for an HTTP method (case-insensitive), or nil.
func (p *PathItem) Operation(method string) *Operation {
	return p.Operations[httputil.NormalizeMethod(method)]
}

// Methods returns the methods with operations, in canonical method order.
func (p *PathItem) Methods() []string {
	out := make([]string, 0, len(p.Operations))
	for _, m := range httputil.Methods {
		if _, ok := p.Operations[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Operation describes a single API operation on a path.
type Operation struct {
	Pointer     document.Pointer
	Method      string
	ID          string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	// Parameters are the slots declared on the operation itself, in order.
	// Entries may be $ref nodes; use Deref or EffectiveParameters.
	Parameters []*Parameter
	// Responses is keyed by status code, wildcard ("2XX") or "default".
	Responses map[string]*Response
	Consumes  []string
	Produces  []string
	Schemes   []string
}

// Ptr implements Node.
func (o *Operation) Ptr() document.Pointer { return o.Pointer }

func (o *Operation) reference() (string, Node) { return "", nil }

// Parameter describes a single operation parameter.
type Parameter struct {
	Pointer     document.Pointer
	Ref         string
	Target      *Parameter
	Name        string
	In          string // "path", "query", "header", "body", "formData"
	Description string
	Required    bool
	// Schema describes the parameter value. For non-body parameters it is
	// synthesised from the parameter's own type, format, items and enum.
	Schema           *Schema
	CollectionFormat string
	AllowEmptyValue  bool
}

// Ptr implements Node.
func (p *Parameter) Ptr() document.Pointer { return p.Pointer }

func (p *Parameter) reference() (string, Node) {
	if p.Target == nil {
		return p.Ref, nil
	}
	return p.Ref, p.Target
}

// Response describes a single response from an API operation.
type Response struct {
	Pointer     document.Pointer
	Ref         string
	Target      *Response
	Description string
	Schema      *Schema
	Headers     map[string]*Schema
}

// Ptr implements Node.
func (r *Response) Ptr() document.Pointer { return r.Pointer }

func (r *Response) reference() (string, Node) {
	if r.Target == nil {
		return r.Ref, nil
	}
	return r.Ref, r.Target
}

// Schema describes a data type: a primitive, an array, an object with
// properties, or a bare $ref to another schema.
type Schema struct {
	Pointer document.Pointer
	// Name is the definition name for schemas declared under definitions
	// (or components/schemas), empty for inline schemas.
	Name   string
	Ref    string
	Target *Schema

	Type       string
	Format     string
	Items      *Schema
	Properties map[string]*Schema
	// PropertyNames lists the keys of Properties in sorted order.
	PropertyNames []string
	Required      []string
	// AllOf holds the parents of this schema, most general first.
	AllOf         []*Schema
	Enum          []any
	Default       any
	HasDefault    bool
	Discriminator string
	ReadOnly      bool
}

// Ptr implements Node.
func (s *Schema) Ptr() document.Pointer { return s.Pointer }

func (s *Schema) reference() (string, Node) {
	if s.Target == nil {
		return s.Ref, nil
	}
	return s.Ref, s.Target
}

// IsRef reports whether the schema is a bare reference.
func (s *Schema) IsRef() bool { return s.Ref != "" }

// IsObject reports whether the schema describes a structured object.
func (s *Schema) IsObject() bool {
	if s.Type == "object" {
		return true
	}
	return s.Type == "" && (len(s.Properties) > 0 || len(s.AllOf) > 0)
}

// IsRequired reports whether name is listed in the schema's own required set.
func (s *Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}
