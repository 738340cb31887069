package gpsauth

import (
	"errors"
	"fmt"

	"github.com/vaultsandbox/gpsauth-go/internal/api"
	"github.com/vaultsandbox/gpsauth-go/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMalformedKeyBlob is returned when the embedded public key does not
	// decode or does not match the modulus/exponent layout.
	ErrMalformedKeyBlob = crypto.ErrMalformedKeyBlob

	// ErrInvalidKeyComponents is returned when the modulus or exponent cannot
	// form a usable RSA public key.
	ErrInvalidKeyComponents = crypto.ErrInvalidKeyComponents

	// ErrPlaintextTooLong is returned when email and password together exceed
	// what one RSA block can carry.
	ErrPlaintextTooLong = crypto.ErrPlaintextTooLong

	// ErrMalformedCredential is returned when an encoded credential cannot be
	// split into signature and ciphertext.
	ErrMalformedCredential = crypto.ErrMalformedCredential

	// ErrInvalidCredential is returned when the email or password is empty or
	// contains a NUL byte.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrBadAuthentication is returned when the credentials are rejected.
	ErrBadAuthentication = api.ErrBadAuthentication

	// ErrNeedsBrowser is returned when the account requires an interactive
	// sign-in. The APIError carries the URL to open.
	ErrNeedsBrowser = api.ErrNeedsBrowser

	// ErrCaptchaRequired is returned when the server demands a captcha.
	ErrCaptchaRequired = api.ErrCaptchaRequired

	// ErrAccountDisabled is returned for disabled or deleted accounts.
	ErrAccountDisabled = api.ErrAccountDisabled

	// ErrRateLimited is returned when the rate limit is exceeded.
	ErrRateLimited = api.ErrRateLimited

	// ErrMissingToken is returned when a successful response lacks the token.
	ErrMissingToken = api.ErrMissingToken
)

// GPSAuthError is implemented by all typed errors of this package.
type GPSAuthError interface {
	error
	GPSAuthError() // marker method
}

// APIError represents an error response from the auth endpoint.
type APIError struct {
	StatusCode int
	// Code is the Error field of the response, e.g. "BadAuthentication".
	Code   string
	Detail string
	// URL is the browser sign-in URL sent with NeedsBrowser.
	URL string
}

func (e *APIError) Error() string {
	return e.internal().Error()
}

// GPSAuthError implements the GPSAuthError interface.
func (e *APIError) GPSAuthError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	return e.internal().Is(target)
}

func (e *APIError) internal() *api.APIError {
	return &api.APIError{
		StatusCode: e.StatusCode,
		Code:       e.Code,
		Detail:     e.Detail,
		URL:        e.URL,
	}
}

// NetworkError represents a network-level failure.
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

// GPSAuthError implements the GPSAuthError interface.
func (e *NetworkError) GPSAuthError() {}

// wrapError converts internal API errors to public errors.
// This ensures that errors.As() finds the exported types.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Code:       apiErr.Code,
			Detail:     apiErr.Detail,
			URL:        apiErr.URL,
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err:     netErr.Err,
			URL:     netErr.URL,
			Attempt: netErr.Attempt,
		}
	}

	return err
}
