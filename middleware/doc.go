// Package middleware provides the navigation route guard and its HTTP
// plumbing.
//
// The guard is deliberately dumb: it checks credential PRESENCE, never
// validity, and decides per request in O(1) with no I/O. A stale credential
// passes the guard and is caught one hop later by identity resolution. The
// decision order is fixed: public paths first, then the missing-credential
// redirect to login (original path preserved), then the authenticated
// redirect away from auth-only pages.
package middleware
