// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

package pathutil

import (
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// RefPrefixPaths is the Swagger 2.0 prefix of path item references.
const RefPrefixPaths = "#/paths/"

// PathRef builds the reference of a path item. The template's slashes are
// escaped, so "/pet/{petId}" becomes "#/paths/~1pet~1{petId}".
func PathRef(path string) string {
	return RefPrefixPaths + jsonpointer.Escape(path)
}

// OperationRef builds the reference of the operation bound to method under
// path, for example "#/paths/~1pet/post". The method is lower-cased.
func OperationRef(path, method string) string {
	return PathRef(path) + "/" + strings.ToLower(method)
}
