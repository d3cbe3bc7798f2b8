package core

import (
	"fmt"
)

// PipelineError represents a structured error with category and code
type PipelineError struct {
	Category ErrorCategory
	Code     string // Machine-readable code: tool_unavailable, transport_timeout, etc.
	Message  string // Human-readable message
	Cause    error  // Underlying error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Is matches by code, so errors.Is(err, core.ErrTransportTimeout)
// works on copies carrying a custom message or cause.
func (e *PipelineError) Is(target error) bool {
	t, ok := target.(*PipelineError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause
func (e *PipelineError) WithCause(cause error) *PipelineError {
	return &PipelineError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *PipelineError) WithMessage(msg string) *PipelineError {
	return &PipelineError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Cause:    e.Cause,
	}
}

// IsFatal reports whether the error aborts the whole pipeline rather
// than being recorded as a per-file entry.
func (e *PipelineError) IsFatal() bool {
	return e.Category == ErrCategoryPreflight
}

// ErrorCategory groups errors by how the pipeline reacts to them.
type ErrorCategory string

const (
	// ErrCategoryPreflight errors abort before any filesystem mutation.
	ErrCategoryPreflight ErrorCategory = "preflight"
	// ErrCategoryTransport errors cover one failed remote operation.
	ErrCategoryTransport ErrorCategory = "transport"
	// ErrCategoryNaming errors cover files that fail the filename grammar.
	ErrCategoryNaming ErrorCategory = "naming"
	// ErrCategoryFilesystem errors cover local copy failures.
	ErrCategoryFilesystem ErrorCategory = "filesystem"
)

// Predefined errors covering the pipeline failure taxonomy
var (
	ErrToolUnavailable = &PipelineError{
		Category: ErrCategoryPreflight,
		Code:     "tool_unavailable",
		Message:  "adb not found in PATH",
	}
	ErrNoDeviceReachable = &PipelineError{
		Category: ErrCategoryPreflight,
		Code:     "no_device_reachable",
		Message:  "no reachable device",
	}
	ErrTransportTimeout = &PipelineError{
		Category: ErrCategoryTransport,
		Code:     "transport_timeout",
		Message:  "remote operation timed out",
	}
	ErrMalformedName = &PipelineError{
		Category: ErrCategoryNaming,
		Code:     "malformed_name",
		Message:  "filename does not match the screenshot grammar",
	}
	ErrCopyFailure = &PipelineError{
		Category: ErrCategoryFilesystem,
		Code:     "copy_failure",
		Message:  "local copy failed",
	}
)

// NewPipelineError creates a new PipelineError with the given parameters
func NewPipelineError(category ErrorCategory, code, message string) *PipelineError {
	return &PipelineError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}
