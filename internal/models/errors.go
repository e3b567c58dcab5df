package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrExperienceNotFound = errors.New("experience entry not found")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failed check so the caller gets the full
// field/message list in one response instead of the first failure only.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}
