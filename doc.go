// Package authgate is the authentication and session-gating core for a
// dashboard-style web client: it owns the bearer credential, resolves it to a
// verified identity against an external issuer, and keeps a single
// authoritative session state that UI consumers observe.
//
// The package is designed around one rule: all session-state transitions
// funnel through [Engine]. Login, register, logout, background resolution,
// and forced expiry (a 401 observed by the API client) are the only writers;
// everything else — route guarding, CRUD data fetching, view rendering —
// reads.
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Engine], [Builder], [Config],
// [RouteSet], and value types (Identity, SessionState, MetricsSnapshot).
// The credential store lives in credential/, the issuer HTTP contract in
// issuer/, the guarded-navigation middleware in middleware/, and the
// authenticated resource client in apiclient/. Redis cache encoding lives
// under internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Perform network I/O from the Route Guard path (guard decisions are
//     presence checks only; validity is the resolver's job).
//   - Let two concurrent transitions interleave: a logout or forced expiry
//     always wins over an in-flight resolution (generation counter).
//   - Produce a partially populated Identity from a malformed issuer payload.
package authgate
