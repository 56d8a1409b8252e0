package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrInvalidReference indicates an empty or absent pointer.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrResolution indicates a reference resolution failure.
	ErrResolution = errors.New("resolution error")

	// ErrCircularReference indicates a $ref chain with no concrete terminus.
	ErrCircularReference = errors.New("circular reference")

	// ErrValidation indicates a value did not match its schema.
	ErrValidation = errors.New("validation error")

	// ErrFieldNotSet indicates a read of an absent model field.
	ErrFieldNotSet = errors.New("field not set")

	// ErrParse indicates a document decoding failure.
	ErrParse = errors.New("parse error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// InvalidReferenceError is returned when a resolver is handed a pointer that
// cannot address anything (nil or the empty string).
type InvalidReferenceError struct {
	// Ref is the rejected reference (may be empty)
	Ref string
	// Message describes why the reference was rejected
	Message string
}

// Error returns a human-readable error message.
func (e *InvalidReferenceError) Error() string {
	msg := "invalid reference"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *InvalidReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}

// ResolutionError represents a failure to resolve a pointer or follow a $ref.
type ResolutionError struct {
	// Ref is the reference that failed to resolve
	Ref string
	// Document is the locator of the document being searched (empty for the main document)
	Document string
	// IsCircular is true if the failure is a $ref cycle with no concrete node
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ResolutionError) Error() string {
	msg := "resolution error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Document != "" {
		msg += " in " + e.Document
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrResolution, and also ErrCircularReference when IsCircular is set.
func (e *ResolutionError) Is(target error) bool {
	if target == ErrResolution {
		return true
	}
	return target == ErrCircularReference && e.IsCircular
}

// ValidationError represents a value that does not satisfy its schema, or an
// operation call whose arguments do not satisfy its parameters.
type ValidationError struct {
	// Path is the location of the offending value (e.g., "body.tags[0].name")
	Path string
	// Field is the specific field or parameter name with the issue
	Field string
	// Value is the problematic value (may be nil)
	Value any
	// Message describes the validation failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Field != "" {
		if e.Path != "" {
			msg += "." + e.Field
		} else {
			msg += " for " + e.Field
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldNotSetError is returned when reading a model field that is absent.
// Declared is false when the field is not part of the model's type at all.
type FieldNotSetError struct {
	// Type is the model's selected type name
	Type string
	// Field is the field that was read
	Field string
	// Declared reports whether the field is declared on the type's chain
	Declared bool
}

// Error returns a human-readable error message.
func (e *FieldNotSetError) Error() string {
	msg := "field not set"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Type != "" {
		msg += " on " + e.Type
	}
	if !e.Declared {
		msg += " (not declared)"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *FieldNotSetError) Is(target error) bool {
	return target == ErrFieldNotSet
}

// ParseError represents a failure to decode a document.
type ParseError struct {
	// Path is the document locator or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
