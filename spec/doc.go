// Package spec resolves the nodes of an API description into typed values.
//
// A [Resolver] answers pointer queries against a [document.Store] on demand.
// The kind of node returned depends on where the pointer lands:
//
//	#/paths/~1pets             *PathItem
//	#/paths/~1pets/get         *Operation
//	#/parameters/limit         *Parameter
//	#/responses/NotFound       *Response
//	#/definitions/Pet          *Schema
//	#/info                     *Raw
//
// Resolved nodes are cached by canonical pointer, so shared definitions stay
// shared: resolving "#/definitions/Pet" twice, or reaching it through any
// number of $ref links from any document in the store, yields the same *Schema.
//
// # References
//
// A node that is only a $ref keeps its own pointer and records the resolved
// target in its Target field. Use [Resolver.Deref] (or the typed variants)
// to follow a chain to the first concrete node:
//
//	s, _ := r.ResolveSchema("#/definitions/Alias")
//	concrete, err := r.DerefSchema(s)
//
// Path items are different: a path item carrying a $ref is merged with its
// template when it is resolved. Fields declared locally win; the rest are
// inherited from the (itself merged) template.
//
// # Inheritance
//
// [Resolver.Chain] lists the schemas combined through allOf, most general
// first, and [Resolver.Subtypes] lists the named schemas that extend a schema,
// most derived first. The primitive package uses both to pick the most
// specific model type for a value.
package spec
