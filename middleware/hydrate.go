package middleware

import (
	"net/http"

	authgate "github.com/MrEthical07/authgate"
	"github.com/MrEthical07/authgate/credential"
)

// Hydrate seeds the engine's credential store from the persistence cookie on
// incoming requests. It runs before [Guard] so a browser returning after a
// restart is judged by the cookie it carries, not by an empty in-memory
// store. An already-populated store is left alone.
func Hydrate(engine *authgate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine != nil && !engine.HasCredential() {
				if cred, ok := credential.FromRequest(engine.CookieConfig(), r); ok {
					_ = engine.Credentials().Set(cred)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
