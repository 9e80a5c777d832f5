package logic

import (
	"errors"
	"fmt"
	"reflect"
)

// InvariantError reports a defect in how a Domain or goal tree was built.
//
// Invariant violations are not data-dependent outcomes (a failed unification
// simply yields no State); they mean the type-to-table mapping is broken.
// They are raised with panic and must not be swallowed.
type InvariantError struct {
	// Code identifies the violation category.
	Code InvariantCode

	// Message is a human-readable description.
	Message string

	// Domain names the Domain involved, if any.
	Domain string

	// Details contains additional context.
	Details map[string]string
}

// InvariantCode categorizes invariant violations.
type InvariantCode string

const (
	// ErrCodeTypeMismatch indicates two domain values of different types
	// reached the dispatcher.
	ErrCodeTypeMismatch InvariantCode = "TYPE_MISMATCH"

	// ErrCodeUnregisteredType indicates a value type the Domain does not store.
	ErrCodeUnregisteredType InvariantCode = "UNREGISTERED_TYPE"

	// ErrCodeDuplicateType indicates a type registered twice in one Domain.
	ErrCodeDuplicateType InvariantCode = "DUPLICATE_TYPE"

	// ErrCodeNilDomain indicates a State was requested without a Domain.
	ErrCodeNilDomain InvariantCode = "NIL_DOMAIN"

	// ErrCodeInvalidGoal indicates a nil or unknown goal node.
	ErrCodeInvalidGoal InvariantCode = "INVALID_GOAL"
)

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Domain != "" {
		return fmt.Sprintf("%s: %s (domain=%s)", e.Code, e.Message, e.Domain)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvariantError reports whether err is an *InvariantError.
// Uses errors.As to handle wrapped errors.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// NewInvariantError creates an InvariantError with the given code.
func NewInvariantError(code InvariantCode, format string, args ...any) *InvariantError {
	return &InvariantError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func newTypeMismatchError(a, b reflect.Type) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeTypeMismatch,
		Message: "domain values hold different types",
		Details: map[string]string{
			"left":  a.String(),
			"right": b.String(),
		},
	}
}

func newUnregisteredTypeError(domain string, t reflect.Type) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeUnregisteredType,
		Message: fmt.Sprintf("type %s is not registered", t),
		Domain:  domain,
	}
}
