package client

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// NetworkError wraps a transport-level failure (DNS, refused connection,
// timeout). The session state is never changed on a NetworkError; the user
// can simply retry.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError represents an HTTP 401 or 403 response. Raising it does not log
// the user out by itself; that decision belongs to the caller.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d: not authorized", e.StatusCode)
}

// ValidationError carries the server's field-level error payload so forms
// can render per-field messages verbatim.
type ValidationError struct {
	StatusCode int
	Fields     map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("HTTP %d: validation failed", e.StatusCode)
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("HTTP %d: validation failed on %s", e.StatusCode, strings.Join(names, ", "))
}

// Messages returns the error messages for one field, or nil.
func (e *ValidationError) Messages(field string) []string {
	return e.Fields[field]
}

// APIError represents any other non-2xx HTTP response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsAuthError returns true if err (or any wrapped error) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsNetworkError returns true if err (or any wrapped error) is a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// AsValidationError unwraps err into a ValidationError, or returns nil.
func AsValidationError(err error) *ValidationError {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr
	}
	return nil
}
