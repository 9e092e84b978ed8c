// Package apiclient is the authenticated HTTP client for resource API calls.
//
// Every call runs the same contract: fail fast with no network traffic when
// no credential is stored, attach the bearer header from the single
// credential store, and classify the outcome into the session error taxonomy.
// A mid-session credential rejection triggers exactly one forced expiry on
// the session, optionally preceded by one silent refresh-and-retry when the
// issuer supports it.
package apiclient
