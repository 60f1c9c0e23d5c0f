package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTable is returned when a backing table has no usable rows.
	ErrEmptyTable = errors.New("table has no usable rows")

	// ErrNoCanonicalRegion is returned when the waste table has no rows for the
	// canonical aggregate region used as the lookup fallback.
	ErrNoCanonicalRegion = errors.New("waste table has no rows for canonical region")

	// ErrInvalidSiteGeometry is returned when the landfill area or depth is not positive.
	ErrInvalidSiteGeometry = errors.New("site area and depth must be positive")

	// ErrUndefinedInput is returned when a derived computation receives a missing
	// or non-finite input.
	ErrUndefinedInput = errors.New("undefined input")

	// ErrUnclassified is returned when a metric falls outside every classification band.
	ErrUnclassified = errors.New("metric outside all classification bands")

	// ErrAssessmentNotFound is returned by assessment stores for an unknown ID.
	ErrAssessmentNotFound = errors.New("assessment not found")
)

// ValidationError reports a rejected query field. No lookup runs for a query
// that fails validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
