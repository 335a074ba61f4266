// Package errors provides error handling utilities for regreg.
//
// This file contains panic recovery utilities. Objectives are user-supplied code
// evaluated thousands of times inside the solver loop; a panic there (an index
// out of range in a hand-written gradient, say) is converted into a structured
// error carrying the stack at the point of the panic.

package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// PanicError represents an error that was created from a recovered panic.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace contains the stack trace at the time of panic
	StackTrace string

	// Operation identifies where the panic was recovered
	Operation string
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *PanicError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Str("panic_value", fmt.Sprint(e.PanicValue)).
		Str("type", "PanicError")
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String provides detailed information including stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a new PanicError with the given operation context and panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover is used with defer to convert a panic into an error assigned to *err.
// The result is marked with ErrObjectivePanic.
//
// Usage:
//
//	func (f *FISTA) Fit() (err error) {
//	    defer Recover(&err, "FISTA.Fit")
//	    ...
//	}
//
// If the function already returned an error, it is kept in the chain.
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = errors.Mark(errors.Wrapf(*err, "panic in %s: %v", operation, r), ErrObjectivePanic)
		return
	}
	*err = errors.Mark(NewPanicError(operation, r), ErrObjectivePanic)
}

// SafeExecute executes fn and converts any panic into a PanicError.
//
// Example:
//
//	err := SafeExecute("objective.Gradient", func() error {
//	    obj.Gradient(dst, beta)
//	    return nil
//	})
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
