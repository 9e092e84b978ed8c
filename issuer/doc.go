// Package issuer is the HTTP client for the external token issuer / identity
// service. It owns the wire contract: request/response payload shapes, strict
// validation of identity payloads, and the transport/status error split.
//
// The package deliberately knows nothing about session state. It reports what
// the issuer said; the engine decides what that means for the session.
package issuer
