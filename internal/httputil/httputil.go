// Package httputil provides HTTP-related constants and helpers shared by the
// resolver, the operation binder and the client.
package httputil

import (
	"mime"
	"strconv"
	"strings"
)

// HTTP Status Code Constants
const (
	StatusCodeLength     = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode        = 100 // Minimum valid HTTP status code
	MaxStatusCode        = 599 // Maximum valid HTTP status code
	WildcardChar         = 'X' // Wildcard character used in status code patterns (e.g., "2XX")
	MinWildcardFirstChar = '1' // Minimum first digit for wildcard patterns
	MaxWildcardFirstChar = '5' // Maximum first digit for wildcard patterns

	// DefaultResponse is the response key used when no status key matches.
	DefaultResponse = "default"
)

// HTTP Method Constants
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace" // OAS 3.0+ only
)

// Methods lists the path item method keys in canonical order.
var Methods = []string{
	MethodGet, MethodPut, MethodPost, MethodDelete,
	MethodOptions, MethodHead, MethodPatch, MethodTrace,
}

// Media type constants
const (
	MediaTypeJSON        = "application/json"
	MediaTypeForm        = "application/x-www-form-urlencoded"
	MediaTypeMultipart   = "multipart/form-data"
	MediaTypeOctetStream = "application/octet-stream"
	MediaTypeText        = "text/plain"

	// DefaultFileContentType is sent for uploaded file parts that declare
	// no content type of their own.
	DefaultFileContentType = "application/unknown"
)

// NormalizeMethod returns the lower-case path item key for an HTTP method.
func NormalizeMethod(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}

// IsMethod reports whether key names an operation within a path item.
func IsMethod(key string) bool {
	switch key {
	case MethodGet, MethodPut, MethodPost, MethodDelete,
		MethodOptions, MethodHead, MethodPatch, MethodTrace:
		return true
	}
	return false
}

// ValidateStatusCode checks if a response key is valid.
// Valid values are:
//   - "default" for default response
//   - Extension fields starting with "x-"
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidateStatusCode(code string) bool {
	if code == DefaultResponse {
		return true
	}

	if strings.HasPrefix(code, "x-") {
		return true
	}

	if len(code) == StatusCodeLength {
		if code[1] == WildcardChar && code[2] == WildcardChar {
			firstChar := code[0]
			if firstChar >= MinWildcardFirstChar && firstChar <= MaxWildcardFirstChar {
				return true
			}
		}

		if code[0] >= '0' && code[0] <= '9' &&
			code[1] >= '0' && code[1] <= '9' &&
			code[2] >= '0' && code[2] <= '9' {
			statusCode, err := strconv.Atoi(code)
			if err == nil && statusCode >= MinStatusCode && statusCode <= MaxStatusCode {
				return true
			}
		}
	}

	return false
}

// StatusCandidates returns the response keys that may describe a status
// code, most specific first: the exact code, its wildcard class, "default".
//
//	StatusCandidates(404) // ["404", "4XX", "default"]
func StatusCandidates(status int) []string {
	code := strconv.Itoa(status)
	if len(code) != StatusCodeLength {
		return []string{code, DefaultResponse}
	}
	return []string{code, code[:1] + "XX", DefaultResponse}
}

// IsValidMediaType validates a media type string according to RFC 2045/2046.
// Handles wildcards (*/* and type/*) and prevents invalid combinations (*/subtype).
func IsValidMediaType(mediaType string) bool {
	if mediaType == "*/*" {
		return true
	}

	if strings.HasSuffix(mediaType, "/*") {
		parts := strings.Split(mediaType, "/")
		if len(parts) == 2 && parts[0] != "" && parts[0] != "*" {
			return true
		}
		return false
	}

	_, _, err := mime.ParseMediaType(mediaType)
	return err == nil
}

// BaseMediaType strips parameters from a Content-Type value and lower-cases it:
// "Application/JSON; charset=utf-8" becomes "application/json".
func BaseMediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// IsJSONMediaType reports whether a Content-Type carries JSON, including
// structured syntax suffixes such as "application/problem+json".
func IsJSONMediaType(contentType string) bool {
	mt := BaseMediaType(contentType)
	return mt == MediaTypeJSON || strings.HasSuffix(mt, "+json")
}
