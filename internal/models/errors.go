package models

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound - инцидент с указанным id не существует
	ErrNotFound = errors.New("incident not found")
	// ErrDuplicateContact - contact_information уже используется другим инцидентом
	ErrDuplicateContact = errors.New("contact information already in use")
	// ErrValidation - запрос не прошел проверку
	ErrValidation = errors.New("validation failed")
)

// FieldError описывает нарушение для одного поля запроса
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError содержит все нарушения запроса; errors.Is(err, ErrValidation) == true
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
