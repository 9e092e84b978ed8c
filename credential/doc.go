// Package credential holds the single bearer credential the session core runs
// on. One scheme only: a client-readable cookie persists the value across
// restarts, an in-memory store holds it at runtime, and API calls attach it as
// an Authorization bearer header. No second storage location exists, so
// presence checks and header injection can never disagree.
package credential
