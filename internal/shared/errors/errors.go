// Package errors provides application-level error types and utilities.
// It defines common error types like validation, not found, conflict, and
// the ledger-specific reconciliation errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation_error"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeInternal   ErrorType = "internal_error"
	ErrorTypeBadRequest ErrorType = "bad_request"

	// Reconciliation error types. All of these except corrupt_ledger are
	// recoverable by the caller.
	ErrorTypeInvalidQuantity     ErrorType = "invalid_quantity"
	ErrorTypeInsufficientBalance ErrorType = "insufficient_balance"
	ErrorTypeDuplicateResolution ErrorType = "duplicate_resolution"
	ErrorTypeAlreadyLinked       ErrorType = "already_linked"
	ErrorTypeNothingToReverse    ErrorType = "nothing_to_reverse"
	ErrorTypeEntitlementInUse    ErrorType = "entitlement_in_use"
	ErrorTypeCorruptLedger       ErrorType = "corrupt_ledger"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(t ErrorType, code int, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details...)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details...)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details...)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details...)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details...)
}

// NewInvalidQuantityError rejects non-positive unit counts before any mutation.
func NewInvalidQuantityError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidQuantity, http.StatusBadRequest, message, details...)
}

// NewInsufficientBalanceError reports a deduction that exceeds the remaining
// units. The message must carry the requested/remaining numbers so the caller
// can correct input without retrying blindly.
func NewInsufficientBalanceError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInsufficientBalance, http.StatusConflict, message, details...)
}

// NewDuplicateResolutionError reports that a billing line is already resolved.
func NewDuplicateResolutionError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeDuplicateResolution, http.StatusConflict, message, details...)
}

// NewAlreadyLinkedError reports an entitlement already tied to a billing line.
func NewAlreadyLinkedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeAlreadyLinked, http.StatusConflict, message, details...)
}

// NewNothingToReverseError reports that no ledger entry exists to undo.
func NewNothingToReverseError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNothingToReverse, http.StatusNotFound, message, details...)
}

// NewEntitlementInUseError blocks reversal of a creation whose entitlement has
// since been independently consumed.
func NewEntitlementInUseError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeEntitlementInUse, http.StatusConflict, message, details...)
}

// NewCorruptLedgerError flags a store/ledger divergence. Not caller
// recoverable; the triggering operation must abort without partial writes.
func NewCorruptLedgerError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeCorruptLedger, http.StatusInternalServerError, message, details...)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsInvalidQuantityError checks for a rejected non-positive unit count.
func IsInvalidQuantityError(err error) bool {
	return isType(err, ErrorTypeInvalidQuantity)
}

// IsInsufficientBalanceError checks for an over-deduction rejection.
func IsInsufficientBalanceError(err error) bool {
	return isType(err, ErrorTypeInsufficientBalance)
}

// IsDuplicateResolutionError checks for a second resolution on a closed line.
func IsDuplicateResolutionError(err error) bool {
	return isType(err, ErrorTypeDuplicateResolution)
}

// IsAlreadyLinkedError checks for a link attempt on an already-linked entitlement.
func IsAlreadyLinkedError(err error) bool {
	return isType(err, ErrorTypeAlreadyLinked)
}

// IsNothingToReverseError checks for a reversal with no ledger entry.
func IsNothingToReverseError(err error) bool {
	return isType(err, ErrorTypeNothingToReverse)
}

// IsEntitlementInUseError checks for a blocked creation reversal.
func IsEntitlementInUseError(err error) bool {
	return isType(err, ErrorTypeEntitlementInUse)
}

// IsCorruptLedgerError checks for a fatal store/ledger divergence.
func IsCorruptLedgerError(err error) bool {
	return isType(err, ErrorTypeCorruptLedger)
}

// IsDuplicateKeyError checks if the error is a database duplicate key error
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// MySQL duplicate entry error
	if strings.Contains(errStr, "Duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// SQLite unique violation
	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return true
	}
	// PostgreSQL unique violation
	if strings.Contains(errStr, "unique constraint") || strings.Contains(errStr, "violates unique constraint") {
		return true
	}
	return false
}
