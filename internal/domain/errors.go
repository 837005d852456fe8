// Package domain contains the customer, user and role model and the errors
// the use cases raise. Domain errors describe business-level failures; the
// HTTP adapter maps them to status codes.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates a referenced entity does not exist. Data-integrity
	// violations (a customer without its context, a user pointing at a deleted
	// language) are reported with this sentinel as well.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate key or a stale record version.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates invalid input or a caller-contract violation.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the operation is not permitted by a business rule.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a remote dependency failed or could not be reached.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError describes which entity was looked up and by what key.
type NotFoundError struct {
	Entity string
	Key    string
	Value  string
}

func (e *NotFoundError) Error() string {
	if e.Value == "" {
		return e.Entity + " not found"
	}

	key := e.Key
	if key == "" {
		key = "id"
	}

	return fmt.Sprintf("%s with %s %q not found", e.Entity, key, e.Value)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError reports an entity missing by id.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, Key: "id", Value: id}
}

// NewNotFoundByError reports an entity missing by an arbitrary lookup key
// such as "code", "name" or "email".
func NewNotFoundByError(entity, key, value string) error {
	return &NotFoundError{Entity: entity, Key: key, Value: value}
}

// ConflictError reports a uniqueness or concurrency violation. Field names
// the colliding attribute when the conflict is a duplicate.
type ConflictError struct {
	Entity string
	Field  string
	Value  string
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s with %s: %s already exists.", e.Entity, e.Field, e.Value)
	}

	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewAlreadyExistsError reports a duplicate value for a unique field.
func NewAlreadyExistsError(entity, field, value string) error {
	return &ConflictError{Entity: entity, Field: field, Value: value}
}

// NewConflictError reports a non-duplicate conflict such as a stale version.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// ValidationError describes an invalid or missing input field.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// NewRequiredFieldError reports a nil or blank required field.
func NewRequiredFieldError(field string) error {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Field %s cannot be empty. Please provide valid input.", field),
	}
}

// ForbiddenError reports an operation refused by a business rule.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
	}

	return fmt.Sprintf("operation %q forbidden", e.Operation)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NewForbiddenError creates a forbidden error with context.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnavailableError reports a dependency that could not be reached at all,
// for example an open circuit or a transport failure.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// Identity provider operation names carried by ExternalServiceError.
const (
	OpCreateUser      = "CREATE_USER"
	OpUpdateUser      = "UPDATE_USER"
	OpFindUserByID    = "FIND_USER_BY_ID"
	OpFindUserByEmail = "FIND_USER_BY_EMAIL"
)

// ExternalServiceError reports an error status returned by a remote system
// of record. Operation names the call that failed, Code carries the remote
// error code when the response body had one.
type ExternalServiceError struct {
	Service    string
	Operation  string
	StatusCode int
	Code       string
}

func (e *ExternalServiceError) Error() string {
	msg := fmt.Sprintf("%s %s failed with status %d", e.Service, e.Operation, e.StatusCode)
	if e.Code != "" {
		msg += ": " + e.Code
	}

	return msg
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ExternalServiceError) Unwrap() error {
	return ErrUnavailable
}

// NewExternalServiceError creates an external service error.
func NewExternalServiceError(service, operation string, status int, code string) error {
	return &ExternalServiceError{Service: service, Operation: operation, StatusCode: status, Code: code}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForbidden checks if an error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsExternalService reports whether err carries an ExternalServiceError.
func IsExternalService(err error) bool {
	var ext *ExternalServiceError
	return errors.As(err, &ext)
}
