package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeLookup     ErrorType = "lookup"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeMissingAttribute = "MISSING_ATTRIBUTE"
	ErrCodeMissingChild     = "MISSING_CHILD"
	ErrCodeInvalidDocument  = "ERR_INVALID_DOCUMENT"
	ErrCodeInvalidMarkup    = "ERR_INVALID_MARKUP"
	ErrCodeInvalidPath      = "ERR_INVALID_PATH"
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodeWriteFailed      = "ERR_WRITE_FAILED"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeRenderFailed     = "ERR_RENDER_FAILED"
	ErrCodeInternalError    = "ERR_INTERNAL"
)

// Sentinels for errors.Is. Matching compares type and code only.
var (
	ErrMissingAttribute = &TreeError{Type: ErrorTypeLookup, Code: ErrCodeMissingAttribute}
	ErrMissingChild     = &TreeError{Type: ErrorTypeLookup, Code: ErrCodeMissingChild}
)

// TreeError is a structured error type with context.
type TreeError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	Node     string
	FilePath string
	Line     int
	Column   int
}

// Error implements the error interface.
func (e *TreeError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Node != "" {
		parts = append(parts, "node:"+e.Node)
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
			if e.Column > 0 {
				location += fmt.Sprintf(":%d", e.Column)
			}
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *TreeError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *TreeError) Is(target error) bool {
	var t *TreeError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *TreeError) WithContext(key string, value interface{}) *TreeError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds file location information.
func (e *TreeError) WithLocation(filePath string, line, column int) *TreeError {
	e.FilePath = filePath
	e.Line = line
	e.Column = column

	return e
}

// WithNode records the name of the node the error concerns.
func (e *TreeError) WithNode(node string) *TreeError {
	e.Node = node

	return e
}

// Error creation functions

// NewMissingAttributeError reports an indexed attribute read on an absent key.
func NewMissingAttributeError(node, key string) *TreeError {
	return &TreeError{
		Type:    ErrorTypeLookup,
		Code:    ErrCodeMissingAttribute,
		Message: fmt.Sprintf("missing attribute %q on <%s>", key, node),
		Node:    node,
		Context: map[string]interface{}{"key": key},
	}
}

// NewMissingChildError reports a direct-child lookup that found nothing. The
// message carries the parent's name and depth so the caller can locate it.
func NewMissingChildError(parent string, depth int, target string) *TreeError {
	return &TreeError{
		Type:    ErrorTypeLookup,
		Code:    ErrCodeMissingChild,
		Message: fmt.Sprintf("missing child %q in <%s> at depth %d", target, parent, depth),
		Node:    parent,
		Context: map[string]interface{}{"target": target, "depth": depth},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *TreeError {
	return &TreeError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *TreeError {
	return &TreeError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewNetworkError creates a network error.
func NewNetworkError(code, message string, cause error) *TreeError {
	return &TreeError{
		Type:    ErrorTypeNetwork,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *TreeError {
	return &TreeError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *TreeError {
	return &TreeError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsMissingAttribute reports whether err is a missing-attribute lookup error.
func IsMissingAttribute(err error) bool {
	return errors.Is(err, ErrMissingAttribute)
}

// IsMissingChild reports whether err is a missing-child lookup error.
func IsMissingChild(err error) bool {
	return errors.Is(err, ErrMissingChild)
}
