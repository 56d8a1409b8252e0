// Package app loads an API description and indexes its operations.
//
// An App owns a document.Store and the spec.Resolver built over it. Its
// operations are bound with package operation the first time one is looked
// up, either by operationId:
//
//	a, err := app.New(app.WithFilePath("petstore.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	op, err := a.Op("getPetById")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	req, resp, err := op.Call(operation.Args{"petId": 1})
//
// or by method and path template with OpFor("get", "/pet/{petId}").
//
// Path items that share a template through $ref share its operations too.
// Such an operation is reachable by (method, path) from every path, while
// its operationId names the first path in sorted order.
package app
