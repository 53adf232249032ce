package dwapi

import (
	"errors"
	"fmt"
)

// Static parser errors; syntax failures wrap these so callers can test with
// errors.Is.
var (
	ErrHeaderSyntax    = errors.New("malformed header value")
	ErrConditionSyntax = errors.New("malformed search condition")
)

// Static configuration and transport errors.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrPlatformURLRequired   = errors.New("platform URL is required")
	ErrCredentialsRequired   = errors.New("username and password are required for a fresh login")
	ErrSkipTLSOnlyInDev      = errors.New("SkipTLSVerify is only allowed in development environments")
	ErrCredentialFileMissing = errors.New("credentials file not found")
	ErrNoAuthenticator       = errors.New("no authenticator attached to the connection")
	ErrContentLengthMismatch = errors.New("unexpected content length")
)

// AccountError reports a rejected login or bad credentials.
type AccountError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *AccountError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}

	return e.Message
}

func (e *AccountError) Unwrap() error {
	return e.Err
}

// ResourceError reports a request that ended with a non-200 status after any
// reauthentication retry. URL and StatusCode are always populated so the
// error is actionable without inspecting internals.
type ResourceError struct {
	Message    string
	URL        string
	StatusCode int
	Err        error
}

func (e *ResourceError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}

	if e.URL != "" {
		return fmt.Sprintf("[%s] %s", e.URL, msg)
	}

	return msg
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// ResourceNotFoundError is a ResourceError raised by download or lookup
// misses.
type ResourceNotFoundError struct {
	ResourceError
}

// Unwrap lets errors.As treat a not-found error as a plain ResourceError.
func (e *ResourceNotFoundError) Unwrap() error {
	return &e.ResourceError
}

// DataError reports a malformed field payload, for example a non-numeric
// value where an integer was expected.
type DataError struct {
	Field   string
	Message string
}

func (e *DataError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("field %q: %s", e.Field, e.Message)
	}

	return e.Message
}

// InternalError reports a programmer-facing invariant violation, such as a
// required server-advertised relation being absent.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return e.Message
}

// SearchConditionError reports a condition referencing a field the dialog
// does not know.
type SearchConditionError struct {
	Field   string
	Message string
}

func (e *SearchConditionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Field)
	}

	return e.Message
}

// IsAccountError checks if the error is a login/credential rejection.
func IsAccountError(err error) bool {
	target := &AccountError{}

	return errors.As(err, &target)
}

// IsResourceError checks if the error is a failed HTTP outcome of any kind.
func IsResourceError(err error) bool {
	target := &ResourceError{}

	return errors.As(err, &target)
}

// IsResourceNotFound checks if the error is a download or lookup miss.
func IsResourceNotFound(err error) bool {
	target := &ResourceNotFoundError{}

	return errors.As(err, &target)
}

// IsDataError checks if the error is a malformed field payload.
func IsDataError(err error) bool {
	target := &DataError{}

	return errors.As(err, &target)
}

// IsSearchConditionError checks if the error is an unresolvable condition.
func IsSearchConditionError(err error) bool {
	target := &SearchConditionError{}

	return errors.As(err, &target)
}

// ResourceStatus extracts the HTTP status from a resource error, or 0.
func ResourceStatus(err error) int {
	target := &ResourceError{}
	if errors.As(err, &target) {
		return target.StatusCode
	}

	return 0
}
