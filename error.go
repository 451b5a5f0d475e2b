package docscout

import (
	"context"
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID     = "invalid"
	ETIMEOUT     = "timeout"
	EHTTPSTATUS  = "http_status"
	ENETWORK     = "network"
	ECRAWL       = "crawl"
	EUNAVAILABLE = "unavailable"
	ESKIPPED     = "skipped"
	ENOTFOUND    = "not_found"
	EINTERNAL    = "internal"
)

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// HTTP status of the upstream response when Code is EHTTPSTATUS.
	Status int

	// Underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("docscout error: code=%s err=%v", e.Code, e.Err)
	}
	return fmt.Sprintf("docscout error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Context deadline errors map to ETIMEOUT. Non-application errors
// always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	} else if errors.Is(err, context.DeadlineExceeded) {
		return ETIMEOUT
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		if e.Message == "" && e.Err != nil {
			return e.Err.Error()
		}
		return e.Message
	} else if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out."
	}
	return "Internal error."
}

// ErrorStatus returns the upstream HTTP status carried by err, or 0.
func ErrorStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
