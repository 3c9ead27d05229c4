package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string            `json:"code"`
	Label   string            `json:"error"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Fields  map[string]string `json:"errors,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so callers can test against the predefined values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, label, message string) *Error {
	return &Error{Code: code, Status: status, Label: label, Message: message}
}

// Wrap attaches context to an existing error, inheriting code, status and label from kind.
func Wrap(err error, kind *Error, message string) *Error {
	clone := Clone(kind, message)
	clone.Err = err
	return clone
}

// Predefined errors for the service taxonomy.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "Resource not found", "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "Duplicate resource", "resource already exists")
	ErrBusinessRule       = New("BUSINESS_RULE_VIOLATION", http.StatusBadRequest, "Business rule violated", "business rule violated")
	ErrServiceUnavailable = New("SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "External service unavailable", "external service unavailable")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "Validation failed", "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "Internal server error", "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	if err.Fields != nil {
		clone.Fields = make(map[string]string, len(err.Fields))
		for k, v := range err.Fields {
			clone.Fields[k] = v
		}
	}
	return &clone
}

// NotFound reports a missing entity identified by field and value.
func NotFound(resource, field string, value interface{}) *Error {
	return Clone(ErrNotFound, fmt.Sprintf("%s not found with %s: %v", resource, field, value))
}

// Duplicate reports a uniqueness violation on field.
func Duplicate(resource, field string, value interface{}) *Error {
	return Clone(ErrConflict, fmt.Sprintf("%s already exists with %s: %v", resource, field, value))
}

// BusinessRule reports a state-based rule violation.
func BusinessRule(message string) *Error {
	return Clone(ErrBusinessRule, message)
}

// Unavailable reports a failing peer service.
func Unavailable(service, message string, cause error) *Error {
	return Wrap(cause, ErrServiceUnavailable, fmt.Sprintf("%s: %s", service, message))
}

// Validation builds a validation error carrying per-field messages.
func Validation(message string, fields map[string]string) *Error {
	e := Clone(ErrValidation, message)
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e
}
