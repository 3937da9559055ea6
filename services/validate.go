package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError marks a failure caused by malformed caller input, so
// the transport layer can answer with a client error instead of a
// server one.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// validationError maps validator errors to a single caller-facing message
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var errorMessages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			errorMessages = append(errorMessages, "field "+e.Field()+" is required")
		case "gt":
			errorMessages = append(errorMessages, "field "+e.Field()+" must be greater than 0")
		case "gte":
			errorMessages = append(errorMessages, "field "+e.Field()+" must not be negative")
		case "oneof":
			errorMessages = append(errorMessages, "field "+e.Field()+" must be one of: "+e.Param())
		default:
			errorMessages = append(errorMessages, "field "+e.Field()+" is invalid")
		}
	}
	return NewValidationError(strings.Join(errorMessages, "; "))
}
