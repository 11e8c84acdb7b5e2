package errors

import (
	"errors"
	"fmt"
	"sync"
)

// DocumentError represents a problem found while reading a tree document
type DocumentError struct {
	File    string
	Path    string
	Line    int
	Column  int
	Message string
}

// Error implements the error interface
func (de *DocumentError) Error() string {
	if de.Path != "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", de.File, de.Line, de.Column, de.Path, de.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", de.File, de.Line, de.Column, de.Message)
}

// ErrorCollector collects document errors and general errors
type ErrorCollector struct {
	documentErrors []DocumentError
	errors         []error
	mutex          sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		documentErrors: make([]DocumentError, 0),
		errors:         make([]error, 0),
	}
}

// Add adds a document error to the collector
func (ec *ErrorCollector) Add(err DocumentError) {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.documentErrors = append(ec.documentErrors, err)
}

// AddError adds a general error to the collector
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// GetErrors returns all collected document errors
func (ec *ErrorCollector) GetErrors() []DocumentError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	// Return a copy to avoid race conditions
	result := make([]DocumentError, len(ec.documentErrors))
	copy(result, ec.documentErrors)
	return result
}

// GetAllErrors returns all collected errors (document and general)
func (ec *ErrorCollector) GetAllErrors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	allErrors := make([]error, 0, len(ec.documentErrors)+len(ec.errors))
	for i := range ec.documentErrors {
		docErr := ec.documentErrors[i]
		allErrors = append(allErrors, &docErr)
	}
	allErrors = append(allErrors, ec.errors...)

	return allErrors
}

// HasErrors returns true if there are any errors
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.documentErrors) > 0 || len(ec.errors) > 0
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.documentErrors = ec.documentErrors[:0]
	ec.errors = ec.errors[:0]
}

// Err folds everything collected into a single validation error, or nil.
// The individual errors stay reachable through errors.Is/As on the cause.
func (ec *ErrorCollector) Err(file string) error {
	all := ec.GetAllErrors()
	if len(all) == 0 {
		return nil
	}

	te := &TreeError{
		Type:     ErrorTypeValidation,
		Code:     ErrCodeInvalidDocument,
		Message:  fmt.Sprintf("document has %d problem(s)", len(all)),
		Cause:    errors.Join(all...),
		FilePath: file,
	}
	if docErrs := ec.GetErrors(); len(docErrs) > 0 {
		te.Line = docErrs[0].Line
		te.Column = docErrs[0].Column
	}

	return te
}
