// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil builds the paths and references used while binding
// operations.
//
// [PathBuilder] tracks the location of a value while it is checked against a
// schema, using push/pop semantics so no string is built unless an error is
// reported:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("body")
//	path.Push("tags")
//	path.PushIndex(0)
//	path.Push("name")
//	path.String() // "body.tags[0].name"
//
// The reference builders produce Swagger 2.0 JSON pointers with each token
// escaped:
//
//	pathutil.PathRef("/pet/{petId}")             // "#/paths/~1pet~1{petId}"
//	pathutil.OperationRef("/pet/{petId}", "GET") // "#/paths/~1pet~1{petId}/get"
//
// [Expand] fills a path template such as "/pet/{petId}" from parameter
// values.
package pathutil
