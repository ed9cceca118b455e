package domain

import (
	"fmt"
	"strings"
)

// Error codes for the report error taxonomy. The run ledger stores them alongside failures.
const (
	ErrMissingReport      = "MISSING_REPORT"
	ErrMalformedReport    = "MALFORMED_REPORT"
	ErrSchemaMismatch     = "SCHEMA_MISMATCH"
	ErrUnsupportedSpecies = "UNSUPPORTED_SPECIES"
	ErrValidation         = "VALIDATION_ERROR"
	ErrInternal           = "INTERNAL_ERROR"
)

// Coded is implemented by every error of the taxonomy.
type Coded interface {
	error
	Code() string
}

// MissingReportError reports a sample report that could not be opened or read.
type MissingReportError struct {
	Sample string
	Path   string
	Err    error
}

// Error implements the error interface
func (e *MissingReportError) Error() string {
	return fmt.Sprintf("%s: report %s of sample %s: %v", e.Code(), e.Path, e.Sample, e.Err)
}

// Unwrap exposes the underlying I/O error, so os.ErrNotExist can be matched.
func (e *MissingReportError) Unwrap() error { return e.Err }

// Code returns the taxonomy code
func (e *MissingReportError) Code() string { return ErrMissingReport }

// MalformedReportError reports a report with fewer lines or columns than its layout requires.
type MalformedReportError struct {
	Sample string
	Path   string
	Reason string
}

// Error implements the error interface
func (e *MalformedReportError) Error() string {
	return fmt.Sprintf("%s: report %s of sample %s: %s", e.Code(), e.Path, e.Sample, e.Reason)
}

// Code returns the taxonomy code
func (e *MalformedReportError) Code() string { return ErrMalformedReport }

// SchemaMismatchError reports a sample whose header differs from the declared schema.
type SchemaMismatchError struct {
	Sample   string
	Path     string
	Expected []string
	Got      []string
}

// Error implements the error interface
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: report %s of sample %s: expected columns [%s], got [%s]",
		e.Code(), e.Path, e.Sample, strings.Join(e.Expected, ", "), strings.Join(e.Got, ", "))
}

// Code returns the taxonomy code
func (e *SchemaMismatchError) Code() string { return ErrSchemaMismatch }

// UnsupportedSpeciesError reports a species without an antimicrobial panel.
// Callers treat it as a skip condition, not a failure.
type UnsupportedSpeciesError struct {
	Species string
}

// Error implements the error interface
func (e *UnsupportedSpeciesError) Error() string {
	return fmt.Sprintf("%s: no antimicrobial panel for species %q", e.Code(), e.Species)
}

// Code returns the taxonomy code
func (e *UnsupportedSpeciesError) Code() string { return ErrUnsupportedSpecies }

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Code returns the taxonomy code
func (e *ValidationError) Code() string { return ErrValidation }

// NewMissingReportError creates a new MissingReportError
func NewMissingReportError(sample, path string, err error) *MissingReportError {
	return &MissingReportError{Sample: sample, Path: path, Err: err}
}

// NewMalformedReportError creates a new MalformedReportError
func NewMalformedReportError(sample, path, reason string) *MalformedReportError {
	return &MalformedReportError{Sample: sample, Path: path, Reason: reason}
}

// NewSchemaMismatchError creates a new SchemaMismatchError
func NewSchemaMismatchError(sample, path string, expected, got []string) *SchemaMismatchError {
	return &SchemaMismatchError{Sample: sample, Path: path, Expected: expected, Got: got}
}

// NewUnsupportedSpeciesError creates a new UnsupportedSpeciesError
func NewUnsupportedSpeciesError(species string) *UnsupportedSpeciesError {
	return &UnsupportedSpeciesError{Species: species}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
