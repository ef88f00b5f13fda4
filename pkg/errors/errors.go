// Package errors provides structured error types for the psdrank application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the bound engine and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (malformed graphs, permutations)
//   - INTERNAL_*: Defects that invalidate a whole computation
//   - NOT_FOUND_*: Resource not found
//
// # Severity
//
// Three codes carry algorithmic meaning for the bound engine:
//
//   - ErrCodeInternalInconsistency is always fatal. A lower bound above an
//     upper bound means some intermediate result cannot be trusted, so the
//     entire top-level computation is discarded.
//   - ErrCodeRecursionBudget is recoverable. The offending subproblem folds a
//     loose bound into its result and sibling subproblems continue.
//   - ErrCodeSolverUnstable is a diagnostic. The relaxation oracle flags a
//     solution that failed its own sanity check; callers ignore the estimate.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGraph, "graph must have at least one vertex")
//	if errors.Is(err, errors.ErrCodeInvalidGraph) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "load bounds for %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidGraph       Code = "INVALID_GRAPH"
	ErrCodeInvalidEdge        Code = "INVALID_EDGE"
	ErrCodeInvalidPermutation Code = "INVALID_PERMUTATION"
	ErrCodeInvalidHash        Code = "INVALID_HASH"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeIndexOutOfRange    Code = "INDEX_OUT_OF_RANGE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Bound-engine errors
	ErrCodeInternalInconsistency Code = "INTERNAL_INCONSISTENCY"
	ErrCodeRecursionBudget       Code = "RECURSION_BUDGET_EXCEEDED"
	ErrCodeSolverUnstable        Code = "SOLVER_UNSTABLE"
	ErrCodeCanonTooLarge         Code = "CANON_TOO_LARGE"

	// Persistence errors
	ErrCodeStore Code = "STORE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err must abort the whole top-level bound
// computation. Only internal inconsistencies are fatal; recursion budget
// overflow and solver instability degrade locally.
func IsFatal(err error) bool {
	return Is(err, ErrCodeInternalInconsistency)
}
