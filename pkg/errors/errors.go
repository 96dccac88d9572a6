package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Common sentinel errors for quick checks
var (
	// ErrEmptyResponse is returned when a collaborator answers without a result.
	ErrEmptyResponse = errors.New("empty response")

	// ErrNotFound is returned when a requested object does not exist.
	ErrNotFound = errors.New("not found")

	// ErrReverted is returned when a transaction was mined with a failed status.
	ErrReverted = errors.New("execution reverted")
)

// Error is the base interface for all custom errors in the system.
// It extends the standard error interface with additional context.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Stack returns the captured stack trace.
func (e *BaseError) Stack() []uintptr {
	return e.stack
}

// captureStack captures the current stack trace.
func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// StackTrace returns a formatted stack trace string.
func (e *BaseError) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return buf.String()
}

// DecodingError represents malformed hexadecimal or address input.
type DecodingError struct {
	*BaseError
	Input string
}

// NewDecodingError creates a new decoding error for the given input.
func NewDecodingError(input string, cause error) *DecodingError {
	return &DecodingError{
		BaseError: &BaseError{
			code:    CodeDecoding,
			message: fmt.Sprintf("cannot decode %q", input),
			cause:   cause,
			stack:   captureStack(1),
		},
		Input: input,
	}
}

// InterfaceError represents a contract interface schema that cannot be
// turned into valid operation descriptors.
type InterfaceError struct {
	*BaseError
}

// NewInterfaceError creates a new interface schema error.
func NewInterfaceError(message string, cause error) *InterfaceError {
	if message == "" {
		message = "invalid contract interface"
	}
	return &InterfaceError{
		BaseError: &BaseError{
			code:    CodeInterface,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
	}
}

// StorageError represents any failure of the content-addressed storage
// network: transport, node-side rejection, missing object or malformed
// response.
type StorageError struct {
	*BaseError
	Op  string
	CID string
}

// NewStorageError creates a new storage error for the given operation.
func NewStorageError(op string, cause error) *StorageError {
	return &StorageError{
		BaseError: &BaseError{
			code:    CodeStorage,
			message: fmt.Sprintf("storage %s failed", op),
			cause:   cause,
			stack:   captureStack(1),
		},
		Op: op,
	}
}

// WithCID records the content identifier involved in the failure.
func (e *StorageError) WithCID(cid string) *StorageError {
	e.CID = cid
	return e
}

// RegistryError represents any failure of the on-chain registry transport:
// submission, revert or malformed return data.
type RegistryError struct {
	*BaseError
	Method string
}

// NewRegistryError creates a new registry error for the given contract method.
func NewRegistryError(method string, cause error) *RegistryError {
	return &RegistryError{
		BaseError: &BaseError{
			code:    CodeRegistry,
			message: fmt.Sprintf("registry %s failed", method),
			cause:   cause,
			stack:   captureStack(1),
		},
		Method: method,
	}
}

// IOError represents a local filesystem failure.
type IOError struct {
	*BaseError
	Path string
}

// NewIOError creates a new filesystem error for the given path.
func NewIOError(path string, cause error) *IOError {
	return &IOError{
		BaseError: &BaseError{
			code:    CodeIO,
			message: fmt.Sprintf("i/o on %q failed", path),
			cause:   cause,
			stack:   captureStack(1),
		},
		Path: path,
	}
}

// ValidationError represents an input validation error.
type ValidationError struct {
	*BaseError
	Field string
	Value interface{}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			code:    CodeValidation,
			message: message,
			stack:   captureStack(1),
		},
		Field: field,
		Value: value,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// InternalError represents an unexpected failure.
type InternalError struct {
	*BaseError
	Operation string
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *InternalError {
	if message == "" {
		message = "internal error"
	}
	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
	}
}

// WithOperation sets the operation context.
func (e *InternalError) WithOperation(op string) *InternalError {
	e.Operation = op
	return e
}

// Wrap wraps an error with additional context.
// If the error is already one of our custom types, it preserves the code
// and adds the cause chain. Otherwise, it creates an InternalError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if e, ok := err.(Error); ok {
		return &BaseError{
			code:    e.Code(),
			message: message,
			cause:   err,
			stack:   captureStack(1),
		}
	}

	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   err,
			stack:   captureStack(1),
		},
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// New creates a new error with a message.
func New(message string) error {
	return &BaseError{
		code:    CodeInternal,
		message: message,
		stack:   captureStack(1),
	}
}

// Newf creates a new error with a formatted message.
func Newf(format string, args ...interface{}) error {
	return New(fmt.Sprintf(format, args...))
}
