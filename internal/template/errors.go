package template

import "fmt"

// TemplateError represents a failure to parse or render configuration
// text as a template.
type TemplateError struct {
	Variable string // Variable involved, if any
	Message  string // Error message
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("template error for variable '%s': %s", e.Variable, e.Message)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// NewTemplateError creates a new TemplateError.
func NewTemplateError(variable, message string, cause error) *TemplateError {
	return &TemplateError{
		Variable: variable,
		Message:  message,
		Cause:    cause,
	}
}
