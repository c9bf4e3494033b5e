// Package apierror provides the typed error taxonomy of the core services and
// the standardized error response structures for the API. All errors returned
// to clients go through this package to ensure consistency and to prevent
// leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies a service failure. The set is closed: handlers map each
// kind to exactly one HTTP status and callers can switch exhaustively.
type Kind int

const (
	// KindNotFound — a referenced mesa/producto/orden/usuario does not exist.
	KindNotFound Kind = iota + 1
	// KindInvalidState — the entity is in a terminal or incompatible state
	// (e.g. paying an already-cancelled order). Caller must refresh, not retry.
	KindInvalidState
	// KindValidation — malformed input; Field names the offending field.
	KindValidation
	// KindConstraint — the write would violate a data invariant (stock below
	// zero, duplicate numero/username).
	KindConstraint
	// KindTransaction — the store failed mid-transaction; everything was
	// rolled back, so retrying the whole operation is safe.
	KindTransaction
)

// Error is the typed failure returned by every service operation.
type Error struct {
	Kind   Kind
	Detail string
	Field  string
	cause  error
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.cause }

func NotFound(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail}
}

func InvalidState(detail string) *Error {
	return &Error{Kind: KindInvalidState, Detail: detail}
}

func Validation(field, detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail, Field: field}
}

func Constraint(detail string) *Error {
	return &Error{Kind: KindConstraint, Detail: detail}
}

// Transaction wraps a store failure. The original error is preserved for
// logging but never rendered to the client.
func Transaction(cause error) *Error {
	return &Error{Kind: KindTransaction, Detail: "Error de transaccion en la base de datos", cause: cause}
}

// Status maps an error to its HTTP status code. Untyped errors are 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState, KindValidation:
		return http.StatusBadRequest
	case KindConstraint:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
