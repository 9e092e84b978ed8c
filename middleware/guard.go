package middleware

import (
	"context"
	"net/http"
	"net/url"

	authgate "github.com/MrEthical07/authgate"
)

type routeClassContextKey struct{}

// RouteClassFromContext returns the route classification the guard attached
// to an allowed request.
func RouteClassFromContext(ctx context.Context) (authgate.RouteClass, bool) {
	class, ok := ctx.Value(routeClassContextKey{}).(authgate.RouteClass)
	return class, ok
}

// Guard returns the navigation middleware. Per request it classifies the
// path, checks credential presence on the engine, and applies the decision
// table in fixed order: public allow, protected-without-credential redirect
// to login carrying the original path, authenticated redirect away from
// auth-only pages, default allow.
func Guard(engine *authgate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			routes := engine.Routes()
			class := routes.Classify(r.URL.Path)
			hasCred := engine.HasCredential()

			switch {
			case class == authgate.RoutePublic:
				// Public first: credential presence is irrelevant.

			case class == authgate.RouteProtected && !hasCred:
				engine.Metric(authgate.MetricGuardRedirectLogin)
				http.Redirect(w, r, loginURL(routes, r.URL.Path), http.StatusFound)
				return

			case class == authgate.RouteAuthOnly && hasCred:
				engine.Metric(authgate.MetricGuardRedirectLanding)
				http.Redirect(w, r, routes.LandingPath(), http.StatusFound)
				return
			}

			engine.Metric(authgate.MetricGuardAllowed)
			ctx := context.WithValue(r.Context(), routeClassContextKey{}, class)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func loginURL(routes *authgate.RouteSet, fromPath string) string {
	return routes.LoginPath() + "?" + routes.ReturnParam() + "=" + url.QueryEscape(fromPath)
}
