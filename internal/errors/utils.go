package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Wrap wraps an error with additional context, creating a TreeError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *TreeError {
	if err == nil {
		return nil
	}

	// If it's already a TreeError, preserve its location but update the message
	var te *TreeError
	if errors.As(err, &te) {
		return &TreeError{
			Type:     errType,
			Code:     code,
			Message:  message,
			Cause:    te,
			Context:  te.Context,
			Node:     te.Node,
			FilePath: te.FilePath,
			Line:     te.Line,
			Column:   te.Column,
		}
	}

	return &TreeError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapValidation wraps an error as a validation error
func WrapValidation(err error, code, message string) *TreeError {
	return Wrap(err, ErrorTypeValidation, code, message)
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *TreeError {
	return Wrap(err, ErrorTypeIO, code, message)
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *TreeError {
	return Wrap(err, ErrorTypeConfig, code, message)
}

// GetErrorType returns the type of a TreeError, or ErrorTypeInternal for other errors
func GetErrorType(err error) ErrorType {
	var te *TreeError
	if errors.As(err, &te) {
		return te.Type
	}

	return ErrorTypeInternal
}

// GetErrorCode returns the code of a TreeError, or an empty string
func GetErrorCode(err error) string {
	var te *TreeError
	if errors.As(err, &te) {
		return te.Code
	}

	return ""
}

// FormatError renders an error for CLI output, appending the context keys
// of a TreeError when verbose is set.
func FormatError(err error, verbose bool) string {
	if err == nil {
		return ""
	}

	var te *TreeError
	if !errors.As(err, &te) || !verbose || len(te.Context) == 0 {
		return err.Error()
	}

	msg := err.Error()
	for _, key := range sortedKeys(te.Context) {
		msg += fmt.Sprintf("\n  %s: %v", key, te.Context[key])
	}

	return msg
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
