package errors

import (
	"fmt"
	"strings"
)

// ErrorCategory represents the different kinds of failure the engine can report
type ErrorCategory string

const (
	// Contract violations raised by the core stages
	ErrorCategoryInsufficientPopulation ErrorCategory = "INSUFFICIENT_POPULATION"
	ErrorCategoryEmptySpecimen          ErrorCategory = "EMPTY_SPECIMEN"
	ErrorCategoryConfiguration          ErrorCategory = "INVALID_CONFIGURATION"

	// Failures reported by injected collaborators
	ErrorCategoryOracle ErrorCategory = "ORACLE"
	ErrorCategorySeeder ErrorCategory = "SEEDER"

	// Failures outside the core (reporting, config files, runner)
	ErrorCategoryIO ErrorCategory = "IO"
)

// Sentinels for errors.Is matching. Matching is done on category only.
var (
	ErrInsufficientPopulation = &IncubatorError{Category: ErrorCategoryInsufficientPopulation, Message: "breeding pool needs at least 2 specimens"}
	ErrEmptySpecimen          = &IncubatorError{Category: ErrorCategoryEmptySpecimen, Message: "specimen has no genes"}
	ErrInvalidConfiguration   = &IncubatorError{Category: ErrorCategoryConfiguration, Message: "invalid configuration"}
)

// IncubatorError represents a categorized error with context
type IncubatorError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *IncubatorError) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.Category))
	if e.Component != "" {
		b.WriteString(":")
		b.WriteString(e.Component)
	}
	b.WriteString("]")
	if e.Operation != "" {
		b.WriteString(" ")
		b.WriteString(e.Operation)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping
func (e *IncubatorError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target carries the same category
func (e *IncubatorError) Is(target error) bool {
	t, ok := target.(*IncubatorError)
	if !ok {
		return false
	}
	return t.Category == e.Category
}

// IsContractViolation returns whether the caller can fix this by changing input or configuration
func (e *IncubatorError) IsContractViolation() bool {
	switch e.Category {
	case ErrorCategoryInsufficientPopulation, ErrorCategoryEmptySpecimen, ErrorCategoryConfiguration:
		return true
	default:
		return false
	}
}

// NewIncubatorError creates a new categorized error
func NewIncubatorError(category ErrorCategory, component, operation, message string) *IncubatorError {
	return &IncubatorError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with category context
func WrapError(err error, category ErrorCategory, component, operation string) *IncubatorError {
	if err == nil {
		return nil
	}

	return &IncubatorError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *IncubatorError) WithContext(key string, value interface{}) *IncubatorError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// CategoryOf extracts the category from err, or "" when err is not an IncubatorError
func CategoryOf(err error) ErrorCategory {
	for err != nil {
		if ie, ok := err.(*IncubatorError); ok {
			return ie.Category
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// Common error constructors
func NewInsufficientPopulationError(component, operation string, size int) *IncubatorError {
	return NewIncubatorError(ErrorCategoryInsufficientPopulation, component, operation,
		fmt.Sprintf("breeding pool needs at least 2 specimens, got %d", size)).WithContext("size", size)
}

func NewEmptySpecimenError(component, operation string) *IncubatorError {
	return NewIncubatorError(ErrorCategoryEmptySpecimen, component, operation, "specimen has no genes")
}

func NewConfigurationError(component, operation, message string) *IncubatorError {
	return NewIncubatorError(ErrorCategoryConfiguration, component, operation, message)
}

func NewOracleError(component, operation string, err error) *IncubatorError {
	return WrapError(err, ErrorCategoryOracle, component, operation)
}

func NewSeederError(component, operation string, err error) *IncubatorError {
	return WrapError(err, ErrorCategorySeeder, component, operation)
}

// ErrorStats tracks error statistics
type ErrorStats struct {
	TotalErrors      int
	ErrorsByCategory map[ErrorCategory]int
	RecentErrors     []*IncubatorError
	MaxRecentErrors  int
}

// NewErrorStats creates a new error statistics tracker
func NewErrorStats(maxRecentErrors int) *ErrorStats {
	return &ErrorStats{
		ErrorsByCategory: make(map[ErrorCategory]int),
		RecentErrors:     make([]*IncubatorError, 0, maxRecentErrors),
		MaxRecentErrors:  maxRecentErrors,
	}
}

// RecordError records an error in the statistics
func (es *ErrorStats) RecordError(err *IncubatorError) {
	es.TotalErrors++
	es.ErrorsByCategory[err.Category]++

	es.RecentErrors = append(es.RecentErrors, err)
	if len(es.RecentErrors) > es.MaxRecentErrors {
		es.RecentErrors = es.RecentErrors[1:]
	}
}

// GetErrorRate returns the error rate for a specific category
func (es *ErrorStats) GetErrorRate(category ErrorCategory) float64 {
	if es.TotalErrors == 0 {
		return 0.0
	}
	return float64(es.ErrorsByCategory[category]) / float64(es.TotalErrors)
}
