package app

import (
	"errors"
	"fmt"
)

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// NotGitRepository indicates the working directory is not inside a git work tree.
	NotGitRepository AppErrorType = iota
	// NoRemote indicates the repository has no origin remote.
	NoRemote
	// UnsupportedRemote indicates the origin URL does not point at the configured host.
	UnsupportedRemote
	// GitHubCLIUnavailable indicates gh is missing or not authenticated.
	GitHubCLIUnavailable
	// ScaffoldFailed indicates one or more files could not be written.
	ScaffoldFailed
	// ValidationFailed indicates invalid user input.
	ValidationFailed
	// Internal indicates a programming error such as an unknown template path.
	Internal
)

// String returns the error type name.
func (t AppErrorType) String() string {
	switch t {
	case NotGitRepository:
		return "NotGitRepository"
	case NoRemote:
		return "NoRemote"
	case UnsupportedRemote:
		return "UnsupportedRemote"
	case GitHubCLIUnavailable:
		return "GitHubCLIUnavailable"
	case ScaffoldFailed:
		return "ScaffoldFailed"
	case ValidationFailed:
		return "ValidationFailed"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("AppErrorType(%d)", int(t))
	}
}

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Hint tells the user how to fix the problem. May be empty.
	Hint string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message, hint string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Hint:    hint,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, "", cause)
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *AppError {
	return NewAppError(Internal, message, "this is a bug, please report it", cause)
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, typ AppErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == typ
}
