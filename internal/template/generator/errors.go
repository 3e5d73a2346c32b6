package generator

import "fmt"

// GeneratorErrorType categorizes generator errors.
type GeneratorErrorType int

const (
	// GeneratorWriteFailed indicates a file or directory write failed.
	GeneratorWriteFailed GeneratorErrorType = iota
	// GeneratorRenderFailed indicates content generation failed while planning.
	GeneratorRenderFailed
	// GeneratorPathError indicates an invalid, unsafe or unknown path.
	GeneratorPathError
	// GeneratorRemoveFailed indicates a file or directory could not be removed.
	GeneratorRemoveFailed
	// GeneratorCanceled indicates the batch stopped because the context ended.
	GeneratorCanceled
)

// String returns the error type name.
func (t GeneratorErrorType) String() string {
	switch t {
	case GeneratorWriteFailed:
		return "write failed"
	case GeneratorRenderFailed:
		return "render failed"
	case GeneratorPathError:
		return "invalid path"
	case GeneratorRemoveFailed:
		return "remove failed"
	case GeneratorCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// GeneratorError represents generator-specific errors.
type GeneratorError struct {
	// Type categorizes the error.
	Type GeneratorErrorType
	// Message is the error message.
	Message string
	// File is the file path related to the error (if applicable).
	File string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *GeneratorError) Error() string {
	if e.File != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s (file: %s): %v", e.Message, e.File, e.Cause)
		}
		return fmt.Sprintf("%s (file: %s)", e.Message, e.File)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

func newGeneratorError(typ GeneratorErrorType, message, file string, cause error) *GeneratorError {
	return &GeneratorError{
		Type:    typ,
		Message: message,
		File:    file,
		Cause:   cause,
	}
}
