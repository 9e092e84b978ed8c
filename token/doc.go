// Package token reads public metadata off bearer tokens without verifying
// them. Verification belongs to the issuer; this package only peeks at the
// expiry claim so cookie lifetimes can track token lifetimes.
package token
