// internal/pkg/errors/errors.go
package xerrors

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Common reusable application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict: resource already exists")
	ErrInternal     = errors.New("internal server error")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// ValidationError is raised before any storage call is made; the mutation it
// blocks never started.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UpstreamError means the backing store responded with an error of its own.
// Detail carries the server-provided message when one exists.
type UpstreamError struct {
	Code   string
	Detail string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error %s: %s", e.Code, e.Detail)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NetworkError means no response was observed at all. The operation may have
// completed server-side regardless, so callers must report "verify and
// retry", never "definitely failed".
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: connectivity failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Classify converts a raw storage/transport error into the closed taxonomy so
// downstream code switches on types instead of probing error strings.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return &NetworkError{Op: op, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &UpstreamError{Code: pgErr.Code, Detail: pgErr.Message, Err: err}
	}

	if pgconn.Timeout(err) {
		return &NetworkError{Op: op, Err: err}
	}

	return err
}

// IsNetwork reports whether err (or anything it wraps) is a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
