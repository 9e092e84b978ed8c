package credential

import (
	"net/http"
	"time"
)

// CookieConfig describes the persistence cookie. The cookie is deliberately
// client-readable (not HttpOnly): browser-side consumers read it to seed
// their auth state before any network call.
type CookieConfig struct {
	Name string
	Path string
	// TTL is the cookie lifetime used when the credential carries no expiry
	// of its own.
	TTL      time.Duration
	Secure   bool
	SameSite http.SameSite
}

// NewCookie builds the Set-Cookie value persisting cred. The cookie expiry
// follows the credential's own expiry when known, falling back to TTL.
func NewCookie(cfg CookieConfig, cred Credential) *http.Cookie {
	expires := cred.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(cfg.TTL)
	}

	return &http.Cookie{
		Name:     cookieName(cfg),
		Value:    cred.Token,
		Path:     cookiePath(cfg),
		Expires:  expires,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	}
}

// ClearCookie builds the Set-Cookie value removing the credential cookie.
func ClearCookie(cfg CookieConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cookieName(cfg),
		Value:    "",
		Path:     cookiePath(cfg),
		MaxAge:   -1,
		Secure:   cfg.Secure,
		SameSite: cfg.SameSite,
	}
}

// FromRequest reads the credential cookie off an incoming request. ok is
// false when the cookie is absent or empty.
func FromRequest(cfg CookieConfig, r *http.Request) (Credential, bool) {
	c, err := r.Cookie(cookieName(cfg))
	if err != nil || c.Value == "" {
		return Credential{}, false
	}
	return Credential{Token: c.Value}, true
}

func cookieName(cfg CookieConfig) string {
	if cfg.Name == "" {
		return "auth_token"
	}
	return cfg.Name
}

func cookiePath(cfg CookieConfig) string {
	if cfg.Path == "" {
		return "/"
	}
	return cfg.Path
}
