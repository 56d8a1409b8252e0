// Package oasbind turns Swagger 2.0 API descriptions into typed, reusable
// client operations.
//
// The work is split across packages, each usable on its own:
//
//   - document: pointers, parsed documents and the document store
//   - spec: the lazy, identity-preserving reference resolver
//   - primitive: typed values and polymorphic models built from schemas
//   - operation: binding of call arguments into replayable requests and
//     parsing of responses
//   - client: the transport adapter contract and a net/http adapter
//   - app: a facade that loads a document and indexes its operations
//
// # Quick Start
//
//	a, err := app.New(app.WithFilePath("petstore.yaml"))
//	if err != nil {
//		return err
//	}
//	op, err := a.Op("getPetById")
//	if err != nil {
//		return err
//	}
//	req, resp, err := op.Call(operation.Args{"petId": 1})
//	if err != nil {
//		return err
//	}
//
//	c, _ := client.New()
//	result, err := c.Request(ctx, req, resp)
//	pet := result.Data.(*primitive.Model)
//
// A call performs no I/O; the returned request may be cached and sent as
// often as needed, optionally to another host:
//
//	result, err = c.Request(ctx, req, resp, client.WithURLNetloc("localhost:8080"))
//
// # Errors
//
// Every failure is one of the structured types in oaserrors and can be
// matched with errors.Is against its sentinel, for example
// oaserrors.ErrValidation for an argument that does not fit its schema.
package oasbind
