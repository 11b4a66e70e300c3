// Package errors provides the error types used across the sumai system.
// These errors enable programmatic error checking at the sync boundary,
// where per-feed failures must be recorded without aborting the process.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the sumai system
var (
	// ErrNotFound indicates that a requested record was not found
	ErrNotFound = errors.New("not found")

	// ErrNotModified indicates that a feed reported no change since the
	// cached validation token was minted
	ErrNotModified = errors.New("not modified")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrFeedUnavailable indicates that a feed endpoint is temporarily unavailable
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrReadOnly indicates an attempt to modify a read-only store
	ErrReadOnly = errors.New("read only")
)

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
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
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// NetworkError represents a transport failure while fetching a feed
type NetworkError struct {
	Feed       string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("network error fetching %s feed (status %d): %v", e.Feed, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("network error fetching %s feed: %v", e.Feed, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *NetworkError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrFeedUnavailable
	}
	return false
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(feed, url string, statusCode int, err error) *NetworkError {
	return &NetworkError{Feed: feed, URL: url, StatusCode: statusCode, Err: err}
}

// ParseError represents a feed payload that does not match the expected schema
type ParseError struct {
	Feed    string
	Format  string // "json", "yaml"
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Feed != "" {
		return fmt.Sprintf("%s parse error in %s feed: %s", e.Format, e.Feed, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(feed, format, message string, err error) *ParseError {
	return &ParseError{Feed: feed, Format: format, Message: message, Err: err}
}

// StoreError represents a persisted-store read or write failure
type StoreError struct {
	Operation string // "read", "write", "apply", "load", "save"
	Table     string // "listings", "transactions", "sync_state"
	Err       error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("store error during %s of %s: %v", e.Operation, e.Table, e.Err)
	}
	return fmt.Sprintf("store error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError
func NewStoreError(operation, table string, err error) *StoreError {
	return &StoreError{Operation: operation, Table: table, Err: err}
}

// SyncError represents a per-feed failure during a refresh
type SyncError struct {
	Feed string
	Err  error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	return fmt.Sprintf("sync error for %s feed: %v", e.Feed, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError
func NewSyncError(feed string, err error) *SyncError {
	return &SyncError{Feed: feed, Err: err}
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

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotModified checks if an error is a not-modified result
func IsNotModified(err error) bool {
	return errors.Is(err, ErrNotModified)
}

// IsNetwork checks if an error is a transport failure
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsParse checks if an error is a payload schema failure
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsStore checks if an error is a persisted-store failure
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// Helper wrapping functions for common patterns

// WrapNetwork wraps an error as a NetworkError
func WrapNetwork(feed, url string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return NewNetworkError(feed, url, statusCode, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(feed, format string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(feed, format, err.Error(), err)
}

// WrapStore wraps an error as a StoreError
func WrapStore(operation, table string, err error) error {
	if err == nil {
		return nil
	}
	return NewStoreError(operation, table, err)
}
