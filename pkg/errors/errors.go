// Package errors provides custom error types for the jobsync system.
// These errors enable programmatic error classification so callers can
// decide whether a failure is worth retrying, and carry enough context
// (paths, queries, row identifiers) for diagnostics.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Common sentinel errors for the jobsync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the remote rejected our credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedRequest indicates the remote rejected the request shape
	ErrMalformedRequest = errors.New("malformed request")

	// ErrTransient indicates a temporary remote or network failure
	ErrTransient = errors.New("transient failure")
)

// ScanError reports a scan-level failure: the root directory itself
// could not be read, so the run produced no data.
type ScanError struct {
	Root string
	Err  error
}

// Error implements the error interface
func (e *ScanError) Error() string {
	return fmt.Sprintf("scan of %s failed: %v", e.Root, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ScanError) Unwrap() error {
	return e.Err
}

// NewScanError creates a new ScanError
func NewScanError(root string, err error) *ScanError {
	return &ScanError{Root: root, Err: err}
}

// IOError represents an error during file I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "stat"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ParseError represents an error when parsing data
type ParseError struct {
	Format  string // "manifest", "yaml", "json"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s file %s:%d: %s", e.Format, e.File, e.Line, e.Message)
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

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, File: file, Message: err.Error(), Err: err}
}

// APIError represents an error from the remote sheet API.
// The status code determines which sentinel the error matches, so
// callers can classify failures with errors.Is.
type APIError struct {
	Operation  string // "list", "delete", "add", "update"
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sheet API error during %s (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("sheet API error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support, mapping status codes to sentinels.
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return target == ErrUnauthorized
	case e.StatusCode == 429:
		return target == ErrRateLimited
	case e.StatusCode == 400:
		return target == ErrMalformedRequest
	case e.StatusCode >= 500:
		return target == ErrTransient
	case e.StatusCode == 0:
		// No HTTP response at all: network-level failure.
		return target == ErrTransient
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(operation string, statusCode int, message string) *APIError {
	return &APIError{Operation: operation, StatusCode: statusCode, Message: message}
}

// ConnKind classifies database connection failures.
type ConnKind string

// Connection failure kinds.
const (
	ConnKindDriver      ConnKind = "driver"
	ConnKindUnreachable ConnKind = "unreachable"
	ConnKindAuth        ConnKind = "auth"
)

// ConnectionError represents a failure to establish a database connection
type ConnectionError struct {
	Kind    ConnKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed (%s): %s", e.Kind, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConnectionError) Is(target error) bool {
	if e.Kind == ConnKindAuth {
		return target == ErrUnauthorized
	}
	return false
}

// NewConnectionError creates a new ConnectionError
func NewConnectionError(kind ConnKind, message string, err error) *ConnectionError {
	return &ConnectionError{Kind: kind, Message: message, Err: err}
}

// QueryKind classifies database query failures.
type QueryKind string

// Query failure kinds.
const (
	QueryKindSyntax     QueryKind = "syntax"
	QueryKindDataType   QueryKind = "data-type"
	QueryKindConstraint QueryKind = "constraint"
)

// maxQueryLen bounds the query text carried on a QueryError.
const maxQueryLen = 200

// QueryError represents a failed database query. It carries the
// offending query (truncated) and a snapshot of its parameters.
type QueryError struct {
	Kind   QueryKind
	Query  string
	Params []any
	Err    error
}

// Error implements the error interface
func (e *QueryError) Error() string {
	if len(e.Params) > 0 {
		return fmt.Sprintf("query failed (%s): %v [query: %s] [params: %v]", e.Kind, e.Err, e.Query, e.Params)
	}
	return fmt.Sprintf("query failed (%s): %v [query: %s]", e.Kind, e.Err, e.Query)
}

// Unwrap implements errors.Unwrap
func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a new QueryError, truncating the query text.
func NewQueryError(kind QueryKind, query string, params []any, err error) *QueryError {
	query = strings.Join(strings.Fields(query), " ")
	if len(query) > maxQueryLen {
		query = query[:maxQueryLen-3] + "..."
	}
	return &QueryError{Kind: kind, Query: query, Params: params, Err: err}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if an error is an authentication/authorization error
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTransient checks if an error is worth retrying at the caller's discretion
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
