package middleware

import (
	"net/http"
	"strings"

	authgate "github.com/MrEthical07/authgate"
)

// RequireCredential gates API routes. Unlike [Guard] it never redirects: a
// request without a credential gets a 401 JSON body. Presence is satisfied by
// either a bearer Authorization header or the engine's credential store.
func RequireCredential(engine *authgate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := bearerToken(r.Header.Get("Authorization")); ok {
				next.ServeHTTP(w, r)
				return
			}
			if engine != nil && engine.HasCredential() {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"not authenticated"}`))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
