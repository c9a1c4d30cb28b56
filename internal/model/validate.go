package model

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// ValidateEmission checks an Emission for constraint violations before it is
// stored. It returns a *ValidationError if any rules fail, or nil.
// The badge is not checked: any value may be stored.
func ValidateEmission(e *Emission) error {
	var ve ValidationError

	if math.IsNaN(e.CO2) || math.IsInf(e.CO2, 0) {
		ve.Add("co2", "must be a finite number")
	} else if e.CO2 < 0 {
		ve.Add("co2", fmt.Sprintf("must be non-negative, got %v", e.CO2))
	}

	if e.Duration < 0 {
		ve.Add("duration", fmt.Sprintf("must be non-negative, got %d", e.Duration))
	}

	if e.Timestamp.IsZero() {
		ve.Add("timestamp", "is required")
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
