// Package oaserrors provides structured error types for the oasbind library.
//
// Import path: github.com/erraggy/oasbind/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors.
//
// # Error Types
//
//   - [InvalidReferenceError]: empty or absent pointer handed to the resolver
//   - [ResolutionError]: missing pointer target or $ref cycle without a concrete node
//   - [ValidationError]: value does not fit its schema, or missing required argument
//   - [FieldNotSetError]: read of an absent model field
//   - [ParseError]: document decoding failure
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrInvalidReference]: Matches any [InvalidReferenceError]
//   - [ErrResolution]: Matches any [ResolutionError]
//   - [ErrCircularReference]: Matches [ResolutionError] with IsCircular=true
//   - [ErrValidation]: Matches any [ValidationError]
//   - [ErrFieldNotSet]: Matches any [FieldNotSetError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// None of the errors in this package are retried internally; every failure is
// returned synchronously to the caller that triggered it.
package oaserrors
