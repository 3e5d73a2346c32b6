package config

import "fmt"

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType int

const (
	// ConfigNotFound indicates an explicitly requested configuration file is missing.
	ConfigNotFound ConfigErrorType = iota
	// ConfigInvalid indicates the configuration file has invalid syntax or structure.
	ConfigInvalid
	// ConfigValidationFailed indicates a value is out of range or malformed.
	ConfigValidationFailed
)

// ConfigError represents a configuration-related error.
type ConfigError struct {
	// Type is the error type.
	Type ConfigErrorType
	// Message is the error message.
	Message string
	// File is the configuration file path.
	File string
	// Field is the dotted key that caused the error, e.g. "defaults.max_iterations".
	Field string
	// Cause is the underlying error if any.
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	where := "configuration"
	if e.File != "" {
		where = "configuration in " + e.File
	}
	if e.Field != "" {
		where += fmt.Sprintf(" [field: %s]", e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigErrorWithField creates a validation error for one field.
func NewConfigErrorWithField(typ ConfigErrorType, file, field, message string) *ConfigError {
	return &ConfigError{
		Type:    typ,
		File:    file,
		Field:   field,
		Message: message,
	}
}

// NewConfigErrorWithCause creates a new ConfigError with a cause.
func NewConfigErrorWithCause(typ ConfigErrorType, file, message string, cause error) *ConfigError {
	return &ConfigError{
		Type:    typ,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}
