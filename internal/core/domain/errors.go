// Package domain defines the core domain models for linkdrop.
package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// DomainError represents a business domain error with a structured error code.
// Codes have the form LD-<AREA>-<NNNN>; the last four digits carry the HTTP status.
type DomainError struct {
	Code    string // Error code (e.g., "LD-LINK-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus derives the HTTP status from the numeric suffix of the code.
// Codes without a parsable suffix map to 500.
func (e *DomainError) HTTPStatus() int {
	idx := strings.LastIndex(e.Code, "-")
	if idx < 0 {
		return http.StatusInternalServerError
	}
	n, err := strconv.Atoi(e.Code[idx+1:])
	if err != nil || n < 1000 || n > 5999 {
		return http.StatusInternalServerError
	}
	return n / 10
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true // Only check if it's a DomainError
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Download errors. Their messages are the public response text.
var (
	// ErrInvalidToken indicates the token is unknown or already used.
	ErrInvalidToken = NewDomainError("LD-LINK-4040", "Invalid or expired download link")

	// ErrLinkExpired indicates the token exists but its validity window has passed.
	ErrLinkExpired = NewDomainError("LD-LINK-4100", "Download link has expired")

	// ErrFileMissing indicates the token was valid but its file is gone.
	ErrFileMissing = NewDomainError("LD-FILE-4040", "File not found")

	// ErrServeFailure indicates the file could not be opened or streamed.
	ErrServeFailure = NewDomainError("LD-FILE-5000", "Failed to serve file")
)

// Store errors.
var (
	// ErrTokenNotFound is returned by a store when a token id is absent.
	ErrTokenNotFound = NewDomainError("LD-STOR-4040", "token not found")

	// ErrTokenConflict is returned when adding a token id that already exists.
	ErrTokenConflict = NewDomainError("LD-STOR-4090", "token id conflict")

	// ErrStoreCorrupt indicates unreadable persisted state. It is logged and
	// recovered as an empty store, never returned to a caller.
	ErrStoreCorrupt = NewDomainError("LD-STOR-5001", "token store corrupt")

	// ErrStoreClosed is returned when a store is used after Close.
	ErrStoreClosed = NewDomainError("LD-STOR-5030", "token store closed")

	// ErrStorageError indicates a storage layer failure.
	ErrStorageError = NewDomainError("LD-STOR-5000", "storage error")
)

// System and argument errors.
var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("LD-SYS-5000", "Internal server error")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("LD-SYS-4290", "Too many requests")

	// ErrMethodNotAllowed indicates the method is not supported on a route.
	ErrMethodNotAllowed = NewDomainError("LD-SYS-4050", "Method not allowed")

	// ErrRouteNotFound indicates no endpoint matches the request path.
	ErrRouteNotFound = NewDomainError("LD-SYS-4040", "Not found")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("LD-ARG-4000", "invalid argument")
)
