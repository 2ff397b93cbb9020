package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound          = errors.New("resource not found")
	ErrAttributeNotFound = fmt.Errorf("%w: protected attribute", ErrNotFound)
	ErrColumnNotFound    = fmt.Errorf("%w: column", ErrNotFound)
	ErrDecisionNotFound  = fmt.Errorf("%w: decision", ErrNotFound)
	ErrIncidentNotFound  = fmt.Errorf("%w: incident", ErrNotFound)

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyDataset    = fmt.Errorf("%w: empty sample set", ErrInvalidInput)
	ErrEmptyAttributes = fmt.Errorf("%w: protected attribute list is empty", ErrInvalidInput)
	ErrLengthMismatch  = fmt.Errorf("%w: vector lengths do not align", ErrInvalidInput)
	ErrNonBinaryLabels = fmt.Errorf("%w: labels must be binary (0 or 1)", ErrInvalidInput)
	ErrUnknownMetric   = fmt.Errorf("%w: unrecognized metric name", ErrInvalidInput)
)

// Error constructors with context
func NewAttributeNotFoundError(attribute string) error {
	return fmt.Errorf("%w: %q not present in dataset", ErrAttributeNotFound, attribute)
}

func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %q not present in dataset", ErrColumnNotFound, column)
}

func NewDecisionNotFoundError(id DecisionID) error {
	return fmt.Errorf("%w: %q", ErrDecisionNotFound, id.String())
}

func NewIncidentNotFoundError(id IncidentID) error {
	return fmt.Errorf("%w: %q", ErrIncidentNotFound, id.String())
}

func NewLengthMismatchError(what string, want, got int) error {
	return fmt.Errorf("%w: %s has %d values, expected %d", ErrLengthMismatch, what, got, want)
}

func NewNonNumericError(column, value string) error {
	return fmt.Errorf("%w: column %q contains non-numeric value %q", ErrInvalidInput, column, value)
}

func NewUnknownMetricError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
