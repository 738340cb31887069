package api

import (
	"errors"
	"fmt"
)

// Common auth errors that can be checked with errors.Is.
var (
	// ErrBadAuthentication indicates the credentials were rejected.
	ErrBadAuthentication = errors.New("bad authentication")
	// ErrNeedsBrowser indicates the account requires an interactive
	// browser sign-in (for example 2-step verification).
	ErrNeedsBrowser = errors.New("account requires browser sign-in")
	// ErrCaptchaRequired indicates the server demands a captcha.
	ErrCaptchaRequired = errors.New("captcha required")
	// ErrAccountDisabled indicates the account is disabled or deleted.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrMissingToken indicates a successful response lacked the expected token.
	ErrMissingToken = errors.New("response missing token")
)

// Error codes carried in the Error field of an auth response.
const (
	CodeBadAuthentication = "BadAuthentication"
	CodeNeedsBrowser      = "NeedsBrowser"
	CodeCaptchaRequired   = "CaptchaRequired"
	CodeAccountDisabled   = "AccountDisabled"
	CodeAccountDeleted    = "AccountDeleted"
)

// APIError represents an error response from the auth endpoint.
type APIError struct {
	StatusCode int
	// Code is the value of the Error field, e.g. "BadAuthentication".
	Code string
	// Detail is the ErrorDetail or Info field when present.
	Detail string
	// URL is the browser sign-in URL returned with NeedsBrowser.
	URL string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("auth error %d", e.StatusCode)
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.URL != "" {
		msg += " url: " + e.URL
	}
	return msg
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case CodeBadAuthentication:
		return target == ErrBadAuthentication
	case CodeNeedsBrowser:
		return target == ErrNeedsBrowser
	case CodeCaptchaRequired:
		return target == ErrCaptchaRequired
	case CodeAccountDisabled, CodeAccountDeleted:
		return target == ErrAccountDisabled
	}
	return e.StatusCode == 429 && target == ErrRateLimited
}

// NetworkError represents a transport-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// newAPIError builds an APIError from a parsed error response.
func newAPIError(statusCode int, resp Response) *APIError {
	detail := resp.Get("ErrorDetail")
	if detail == "" {
		detail = resp.Get("Info")
	}
	return &APIError{
		StatusCode: statusCode,
		Code:       resp.Get("Error"),
		Detail:     detail,
		URL:        resp.Get("Url"),
	}
}
