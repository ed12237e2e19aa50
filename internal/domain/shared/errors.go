package shared

import (
	"errors"
	"fmt"
)

// Error codes shared by every bounded context
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidState      = "INVALID_STATE"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeConflict          = "CONFLICT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so sentinels match
// errors built with the constructors below.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrValidation        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidState      = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInsufficientStock = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrConflict          = NewDomainError(CodeConflict, "Resource conflicts with an existing record")
)

// NewValidationError reports malformed input or a missing required field
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError reports an unknown order, receivable, product, sale or combination
func NewNotFoundError(resource string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s %v not found", resource, id))
}

// NewInvalidStateError reports an operation that is illegal from the current status
func NewInvalidStateError(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidState, fmt.Sprintf(format, args...))
}

// NewInsufficientStockError names the item whose requested quantity exceeds availability
func NewInsufficientStockError(item string, requested, available int) *DomainError {
	return NewDomainError(CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for %s: requested %d, available %d", item, requested, available))
}

// NewConflictError reports a uniqueness violation
func NewConflictError(format string, args ...any) *DomainError {
	return NewDomainError(CodeConflict, fmt.Sprintf(format, args...))
}

// IsCode reports whether err (or anything it wraps) is a DomainError with the given code
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
