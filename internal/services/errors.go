package services

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindUnauthorized     ErrorKind = "unauthorized"
	KindNotFound         ErrorKind = "not_found"
	KindValidation       ErrorKind = "validation"
	KindInvalidOperation ErrorKind = "invalid_operation"
	KindStorage          ErrorKind = "storage"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the discriminated failure every service operation returns on the
// unhappy path. The API layer maps Kind to a status code; Fields carries
// per-field detail for validation failures only.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
	cause   error
}

func (serviceError *Error) Error() string {
	if serviceError.cause != nil {
		return fmt.Sprintf("%s: %v", serviceError.Message, serviceError.cause)
	}
	return serviceError.Message
}

func (serviceError *Error) Unwrap() error {
	return serviceError.cause
}

func NewUnauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewValidation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NewInvalidOperation(message string) *Error {
	return &Error{Kind: KindInvalidOperation, Message: message}
}

func NewStorage(message string, cause error) *Error {
	return &Error{Kind: KindStorage, Message: message, cause: cause}
}

// KindOf extracts the failure kind from any error returned by a service.
// Unrecognized errors classify as storage failures so they surface opaquely.
func KindOf(err error) ErrorKind {
	var serviceError *Error
	if errors.As(err, &serviceError) {
		return serviceError.Kind
	}
	return KindStorage
}

// FieldsOf returns the field-level detail of a validation failure, nil for
// everything else.
func FieldsOf(err error) []FieldError {
	var serviceError *Error
	if errors.As(err, &serviceError) {
		return serviceError.Fields
	}
	return nil
}
