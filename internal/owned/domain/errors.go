package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOwnMovieNotFound is returned when no stored record has the id
	ErrOwnMovieNotFound = errors.New("own movie not found")

	// ErrCorruptCollection is returned when a mutation would overwrite a blob that is not a JSON array
	ErrCorruptCollection = errors.New("stored movie collection is not a JSON array")

	// ErrNotAnObject is reported for collection entries that are not JSON objects
	ErrNotAnObject = errors.New("entry is not a JSON object")
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ValidationErrors collects every failed field of one form.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Field + ": " + v.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for field, or "".
func (e ValidationErrors) Field(field string) string {
	for _, v := range e {
		if v.Field == field {
			return v.Message
		}
	}
	return ""
}

// AsValidationErrors extracts field errors from err's chain.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return ValidationErrors{single}, true
	}
	return nil, false
}
