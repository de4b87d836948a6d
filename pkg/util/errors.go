// Package util provides logging, error types, and small helpers shared by
// the nmconn packages.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrValidationFailed  = errors.New("validation failed")
	ErrCommandFailed     = errors.New("command failed")
	ErrUnsupportedOption = errors.New("unsupported option")
	ErrHostLocked        = errors.New("host locked by another holder")
)

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}

// ExecError is a nonzero exit from an external command. RC and Stderr are
// passed through from the command unchanged.
type ExecError struct {
	Name    string // connection the command acted on
	Command string
	RC      int
	Stderr  string
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s failed with exit code %d", e.Command, e.RC)
	if e.Name != "" {
		msg = fmt.Sprintf("%s (connection %s)", msg, e.Name)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExecError) Unwrap() error {
	return ErrCommandFailed
}

// NewExecError creates an execution error
func NewExecError(name, command string, rc int, stderr string) *ExecError {
	return &ExecError{
		Name:    name,
		Command: command,
		RC:      rc,
		Stderr:  stderr,
	}
}

// ExitCode extracts the external exit code carried by err, if any.
func ExitCode(err error) (int, bool) {
	var execErr *ExecError
	if errors.As(err, &execErr) {
		return execErr.RC, true
	}
	return 0, false
}
