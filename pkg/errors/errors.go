// Package errors provides custom error types for the textkgc toolkit.
// These errors enable programmatic error checking with errors.Is and
// errors.As while carrying file, line and dataset context for debugging.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
var As = errors.As

// Common sentinel errors for the textkgc toolkit
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingFile indicates that a required input file does not exist
	ErrMissingFile = errors.New("missing file")

	// ErrMalformedLine indicates a raw data row with too few columns
	ErrMalformedLine = errors.New("malformed line")

	// ErrUnknownDataset indicates a dataset with no truncation policy entry
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrInvalidConfiguration indicates a rejected configuration value
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrTokenizer indicates a failure inside an external tokenizer
	ErrTokenizer = errors.New("tokenizer failure")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
// A missing dataset also matches ErrUnknownDataset.
func (e *NotFoundError) Is(target error) bool {
	if target == ErrUnknownDataset {
		return e.Resource == "dataset"
	}
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// MissingFileError indicates a required input path does not exist.
type MissingFileError struct {
	Path string
	Role string // what the file is, e.g. "definitions file"
}

// Error implements the error interface
func (e *MissingFileError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s not found: %s", e.Role, e.Path)
	}
	return fmt.Sprintf("file not found: %s", e.Path)
}

// Is implements errors.Is support
func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile || target == ErrNotFound
}

// NewMissingFileError creates a new MissingFileError
func NewMissingFileError(role, path string) *MissingFileError {
	return &MissingFileError{Path: path, Role: role}
}

// MalformedLineError reports a TSV row with fewer columns than required.
type MalformedLineError struct {
	File string
	Line int
	Want int
	Got  int
}

// Error implements the error interface
func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed line %s:%d: expected at least %d columns, got %d", e.File, e.Line, e.Want, e.Got)
}

// Is implements errors.Is support
func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// TokenizerError wraps a failure from an external tokenizer.
type TokenizerError struct {
	Tokenizer string
	ID        string // mapping key being encoded, if any
	Err       error
}

// Error implements the error interface
func (e *TokenizerError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("tokenizer %s failed on %s: %v", e.Tokenizer, e.ID, e.Err)
	}
	return fmt.Sprintf("tokenizer %s failed: %v", e.Tokenizer, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TokenizerError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TokenizerError) Is(target error) bool {
	return target == ErrTokenizer
}

// APIError represents an error from a remote endpoint
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := fmt.Sprintf("request to %s failed: %s", e.Endpoint, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("request to %s failed (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMissingFile checks if an error is a missing input file
func IsMissingFile(err error) bool {
	return errors.Is(err, ErrMissingFile)
}

// IsMalformedLine checks if an error is a malformed raw line
func IsMalformedLine(err error) bool {
	return errors.Is(err, ErrMalformedLine)
}

// IsUnknownDataset checks if an error is an unknown dataset error
func IsUnknownDataset(err error) bool {
	return errors.Is(err, ErrUnknownDataset)
}

// IsInvalidConfiguration checks if an error is a configuration error
func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsTokenizerError checks if an error came from a tokenizer
func IsTokenizerError(err error) bool {
	return errors.Is(err, ErrTokenizer)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "tsv"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open", "extract"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "load", "create", "save"
	Resource  string // "config", "mapping", "tokenizer"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// ProcessError represents an error from an external process or command
type ProcessError struct {
	Operation string // What operation was being performed
	Command   string // The command that was executed
	Output    string // Stdout/stderr output from the process
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (command: %s): %v\nOutput: %s", e.Operation, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
