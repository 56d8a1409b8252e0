// Package operation binds Swagger 2.0 operations to caller arguments.
//
// An [Operation] is a template for one endpoint. Calling it with [Args]
// builds every declared parameter through the primitive type system and
// returns a [Request] and a [Response]:
//
//	op, _ := operation.New(resolver, item, "post")
//	req, resp, err := op.Call(operation.Args{"body": map[string]any{"id": 1, "name": "Tom"}})
//
// Call performs no I/O. The returned pair is immutable and may be cached:
// [Request.Prepare] renders the same [Wire] every time it is called with
// the same [PrepareOptions], so one Request can be sent repeatedly.
//
// Parameters are placed by location:
//
//   - path values are substituted into the template, escaped as segments
//   - query and header values are stringified; arrays use the declared
//     collectionFormat (csv, ssv, tsv, pipes or multi)
//   - the body parameter is encoded in the first media type the operation
//     consumes, JSON by default
//   - formData becomes an urlencoded form, or a multipart form when files
//     are present or the operation consumes multipart/form-data; a file
//     parameter may carry several files, each sent as its own part
//
// Omitted parameters take their declared default. Omitting a required
// parameter, or passing an argument the operation does not declare, fails
// with *oaserrors.ValidationError before any request exists.
//
// [Response.Parse] selects the declared response for a status code (exact
// code, class such as "4XX", then "default") and builds the body against
// its schema.
package operation
