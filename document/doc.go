// Package document holds the raw document trees an API description is made of
// and the pointers that address nodes inside them.
//
// A [Store] owns one or more [Document] values, each identified by a locator
// (a file path or URL). The first document added is the main document.
// A [Pointer] pairs a locator with an RFC 6901 fragment:
//
//	p, err := document.ParsePointer("common.yaml#/parameters/limit")
//	p, err = p.Against(document.Pointer{Base: "http://example.com/api/main.yaml"})
//	// p.Base == "http://example.com/api/common.yaml"
//
// Documents are decoded with YAML (which also accepts JSON) and are never
// modified after they are added to a Store. Loading documents that are only
// reachable through cross-document references is delegated to a [Loader];
// [FileLoader], [FetchLoader] and [MapLoader] cover the common cases.
package document
