package services

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all services. Controllers map these to
// HTTP status codes; the services themselves never know about HTTP.
var (
	// ErrNotFound means an id did not resolve to a row
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a unique constraint would be violated
	ErrConflict = errors.New("conflict with existing record")
)

// ValidationError reports a missing or malformed required field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
