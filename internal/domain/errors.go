package domain

import "errors"

// ErrPoolTimeout is returned when no database connection frees up in time.
var ErrPoolTimeout = errors.New("timed out waiting for a database connection")

// ValidationError is a client fault. Its message is safe to return verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
