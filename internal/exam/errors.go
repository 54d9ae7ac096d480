package exam

import "fmt"

// ValidationError reports a missing or malformed required field. It is
// returned before any persistence happens, so a failed save never leaves a
// partial record behind.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}

func validationErr(field string) error {
	return &ValidationError{Field: field}
}
