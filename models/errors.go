package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies store failures so callers can branch without parsing messages.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnection
	KindValidation
	KindDuplicateUser
	KindNotFound
	KindInvalidCredentials
	KindPersistence
)

var kindNames = map[ErrorKind]string{
	KindUnknown:            "UnknownError",
	KindConnection:         "ConnectionError",
	KindValidation:         "ValidationError",
	KindDuplicateUser:      "DuplicateUserError",
	KindNotFound:           "NotFoundError",
	KindInvalidCredentials: "InvalidCredentialsError",
	KindPersistence:        "PersistenceError",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// StoreError is returned by the account and catalog services. Message is
// human readable and safe to show on a page; Err keeps the underlying cause.
type StoreError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func newStoreError(kind ErrorKind, err error, format string, args ...any) *StoreError {
	return &StoreError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func NewConnectionError(err error, format string, args ...any) *StoreError {
	return newStoreError(KindConnection, err, format, args...)
}

func NewValidationError(format string, args ...any) *StoreError {
	return newStoreError(KindValidation, nil, format, args...)
}

func NewDuplicateUserError(err error, format string, args ...any) *StoreError {
	return newStoreError(KindDuplicateUser, err, format, args...)
}

func NewNotFoundError(format string, args ...any) *StoreError {
	return newStoreError(KindNotFound, nil, format, args...)
}

func NewInvalidCredentialsError(format string, args ...any) *StoreError {
	return newStoreError(KindInvalidCredentials, nil, format, args...)
}

func NewPersistenceError(err error, format string, args ...any) *StoreError {
	return newStoreError(KindPersistence, err, format, args...)
}

// KindOf reports the kind of the first StoreError in err's chain.
func KindOf(err error) ErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
