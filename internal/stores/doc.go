// Package stores provides the Redis-backed identity cache record store.
//
// # Design
//
// The store persists a versioned, binary-encoded identity record in Redis
// with a TTL, keyed by an opaque credential digest supplied by the caller.
// The cache is an optimization only: a miss, a decode failure, or Redis being
// unavailable all degrade to a live resolution, never to an auth decision.
//
// # Architecture boundaries
//
// This package owns persistence for cached identity records. It does NOT
// hash credentials, decide session state, or talk to the issuer.
//
// # What this package must NOT do
//
//   - Import authgate or any sibling internal package.
//   - Store the credential itself, only the caller-supplied digest key.
//   - Treat cache contents as an authority for authentication.
package stores
