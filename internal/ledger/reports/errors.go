package reports

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReportType indicates an unknown report_type value.
	ErrInvalidReportType = errors.New("reports: invalid report type")
	// ErrMissingParameter indicates a report parameter required by the
	// requested type is absent. Wrapped by MissingParameterError naming the
	// field.
	ErrMissingParameter = errors.New("reports: missing parameter")
)

// MissingParameterError names the specific absent field.
type MissingParameterError struct {
	Field string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("reports: missing parameter %q", e.Field)
}

// Unwrap lets errors.Is match ErrMissingParameter.
func (e *MissingParameterError) Unwrap() error {
	return ErrMissingParameter
}

func missingParam(field string) error {
	return &MissingParameterError{Field: field}
}
