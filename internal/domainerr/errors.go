// Package domainerr defines the typed errors raised by domain services.
// Handlers map each type to a stable HTTP status: validation → 422,
// duplicate → 409, not found → 404, forbidden → 403. Cross-tenant lookups
// always surface as not-found so that existence never leaks across tenants.
package domainerr

import "fmt"

// ValidationError reports a business-rule violation (out-of-range fine
// percentage, non-positive quantity, unknown metal code on a casting order).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing resource within the caller's tenant.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// DuplicateError reports a uniqueness conflict, e.g. a metal code collision
// within a tenant.
type DuplicateError struct {
	Resource string
	Field    string
	Value    string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Resource, e.Field, e.Value)
}

func Duplicate(resource, field, value string) *DuplicateError {
	return &DuplicateError{Resource: resource, Field: field, Value: value}
}

// ForbiddenError reports a write attempted below the required role.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

func Forbidden(msg string) *ForbiddenError { return &ForbiddenError{Msg: msg} }
