package confdoc

import (
	"fmt"
	"strings"
)

// ParseError represents a YAML parsing error with location information.
type ParseError struct {
	Line    int    // Line number where the error occurred (1-based)
	Column  int    // Column number where the error occurred (1-based)
	Message string // Error message
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new ParseError.
func NewParseError(line, column int, message string, cause error) *ParseError {
	return &ParseError{
		Line:    line,
		Column:  column,
		Message: message,
		Cause:   cause,
	}
}

// NotFoundError reports a base configuration path that resolved to no
// existing file. Tried lists every location that was checked.
type NotFoundError struct {
	Path  string   // The path value as written in the document
	Tried []string // Locations checked, in order
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.Tried) > 0 {
		return fmt.Sprintf("base config '%s' not found (tried: %s)", e.Path, strings.Join(e.Tried, ", "))
	}
	return fmt.Sprintf("base config '%s' not found", e.Path)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(path string, tried ...string) *NotFoundError {
	return &NotFoundError{Path: path, Tried: tried}
}

// MissingKeyError reports a required key absent from a document.
// Path is the full dot-separated path that failed to resolve.
type MissingKeyError struct {
	Path string
}

// Error implements the error interface.
func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required config key '%s'", e.Path)
}

// NewMissingKeyError creates a new MissingKeyError.
func NewMissingKeyError(path string) *MissingKeyError {
	return &MissingKeyError{Path: path}
}
