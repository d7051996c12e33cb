// Package errs defines the error taxonomy shared by the resource services
// and the HTTP boundary: validation failures map to 400, missing documents
// to 404, and storage faults to 500.
package errs

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{Msg: msg}
}

func IsNotFoundError(err error) bool {
	var notFoundError *NotFoundError
	return errors.As(err, &notFoundError)
}

// StorageError wraps a driver or connectivity failure. The cause is kept for
// logging; the message is what callers may surface.
type StorageError struct {
	Msg   string
	Cause error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func NewStorageError(msg string, cause error) error {
	return &StorageError{Msg: msg, Cause: cause}
}

func IsStorageError(err error) bool {
	var storageError *StorageError
	return errors.As(err, &storageError)
}
