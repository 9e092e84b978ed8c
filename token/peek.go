package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PeekExpiry extracts the exp claim from a JWT-shaped bearer token WITHOUT
// verifying its signature. The result must never gate access; it only informs
// cookie lifetimes. Returns a zero time when the token is not a JWT or
// carries no expiry.
func PeekExpiry(raw string) time.Time {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
