package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized indicates that the actor may not perform the operation.
var ErrUnauthorized = errors.New("unauthorized")

// InvalidTransitionError reports a delivery status change that is not in
// the allowed transition table. The record is left unchanged.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrConflict }

// PackageNotFoundError is returned when no delivery matches a scanned or
// entered package code.
type PackageNotFoundError struct {
	Code string
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package %q not found", e.Code)
}

func (e *PackageNotFoundError) Unwrap() error { return ErrNotFound }

// PaymentRequiredError is returned when a package is scanned for assignment
// before its payment has been confirmed.
type PaymentRequiredError struct {
	Code string
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("package %q must be paid before assignment", e.Code)
}

func (e *PaymentRequiredError) Unwrap() error { return ErrConflict }

// AlreadyAssignedError is returned when a scanned package is already bound
// to a patient. Re-scanning an assigned code always lands here.
type AlreadyAssignedError struct {
	Code string
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("package %q is already assigned", e.Code)
}

func (e *AlreadyAssignedError) Unwrap() error { return ErrConflict }

// DuplicatePackageCodeError is returned by the repository when a create
// collides with an existing package code. Callers may regenerate and retry
// a bounded number of times.
type DuplicatePackageCodeError struct {
	Code string
}

func (e *DuplicatePackageCodeError) Error() string {
	return fmt.Sprintf("package code %q already exists", e.Code)
}

func (e *DuplicatePackageCodeError) Unwrap() error { return ErrConflict }

// EncodingError wraps a failure to produce the scannable representation of
// a package code. Delivery creation is aborted on this error.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode package code: %v", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// ValidationErrors collects field-level validation failures so a form can
// display all of them at once. It is returned, not panicked, and compares
// as ErrInvalid under errors.Is.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrInvalid }

// OrNil returns the map as an error, or nil when no field failed.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
