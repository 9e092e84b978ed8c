package authgate

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when an operation requires a stored
	// credential and none is present. No network call has been made.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAuthenticationFailed is returned when a stored credential was
	// presented and rejected by the issuer (401/403).
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrNoSession is returned by resolution when no valid session exists.
	ErrNoSession = errors.New("no session")
	// ErrTransport is returned for network failures and 5xx responses.
	// Callers may retry; session state is not affected.
	ErrTransport = errors.New("transport failure")
	// ErrMalformedResponse is returned when an issuer payload cannot be
	// decoded into a complete Identity.
	ErrMalformedResponse = errors.New("malformed issuer response")
	// ErrConfiguration is returned for invalid route or engine configuration.
	// It is fatal at build time; it never surfaces at request time.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrCredentialStore is returned when a credential write or clear fails.
	// A dropped write must surface: the UI would otherwise believe it is
	// logged in while the guard sees no credential.
	ErrCredentialStore = errors.New("credential store failure")
	// ErrResolutionSuperseded is returned when a resolution completed after
	// the session moved on (logout, new login) and its result was discarded.
	ErrResolutionSuperseded = errors.New("resolution superseded")
	// ErrRefreshDisabled is returned when a silent refresh is attempted but
	// the issuer contract exposes no refresh endpoint.
	ErrRefreshDisabled = errors.New("refresh disabled")
	// ErrEngineClosed is an exported constant or variable used by the session core.
	ErrEngineClosed = errors.New("engine closed")
)

// RequestError carries a business-level 4xx from the resource API or issuer.
// It is not a session concern: no state transition is triggered and the
// server-provided message is surfaced as-is.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

// IsAuthError reports whether err is a session-level authentication error
// (missing or rejected credential) as opposed to a business or transport
// failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrAuthenticationFailed)
}

// IsRetryable reports whether err is a transport-class failure that a caller
// may retry without any session-state side effect.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport)
}
