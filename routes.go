package authgate

import (
	"fmt"
	"strings"
)

// RouteClass is the static classification of an addressable path.
type RouteClass uint8

const (
	// RoutePublic paths are reachable regardless of credential presence.
	RoutePublic RouteClass = iota
	// RouteProtected paths require a stored credential; absent credential
	// redirects to the login page with the original path preserved.
	RouteProtected
	// RouteAuthOnly paths (login/register) redirect to the landing page when
	// a credential is already present.
	RouteAuthOnly
)

func (c RouteClass) String() string {
	switch c {
	case RoutePublic:
		return "public"
	case RouteProtected:
		return "protected"
	case RouteAuthOnly:
		return "auth_only"
	default:
		return "unknown"
	}
}

// RouteSet is the compiled route classification. It is configuration, not
// runtime state: built once at startup, immutable afterwards, and consulted
// by the guard on every navigation with no I/O.
type RouteSet struct {
	public      map[string]struct{}
	authPrefix  string
	loginPath   string
	landingPath string
	returnParam string
}

// NewRouteSet compiles a [RoutesConfig] into a [RouteSet]. Malformed
// classification is a startup-fatal [ErrConfiguration]; it can never surface
// at request time.
func NewRouteSet(cfg RoutesConfig) (*RouteSet, error) {
	if cfg.AuthPrefix == "" {
		cfg.AuthPrefix = defaultAuthPrefix
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = defaultLoginPath
	}
	if cfg.LandingPath == "" {
		cfg.LandingPath = defaultLandingPath
	}
	if cfg.ReturnParam == "" {
		cfg.ReturnParam = defaultReturnParam
	}

	if !strings.HasPrefix(cfg.AuthPrefix, "/") || !strings.HasSuffix(cfg.AuthPrefix, "/") {
		return nil, fmt.Errorf("%w: auth prefix %q must start and end with '/'", ErrConfiguration, cfg.AuthPrefix)
	}
	if !strings.HasPrefix(cfg.LoginPath, cfg.AuthPrefix) {
		return nil, fmt.Errorf("%w: login path %q must live under auth prefix %q", ErrConfiguration, cfg.LoginPath, cfg.AuthPrefix)
	}
	if strings.HasPrefix(cfg.LandingPath, cfg.AuthPrefix) {
		return nil, fmt.Errorf("%w: landing path %q must not live under auth prefix %q", ErrConfiguration, cfg.LandingPath, cfg.AuthPrefix)
	}

	rs := &RouteSet{
		public:      make(map[string]struct{}, len(cfg.PublicPaths)),
		authPrefix:  cfg.AuthPrefix,
		loginPath:   cfg.LoginPath,
		landingPath: cfg.LandingPath,
		returnParam: cfg.ReturnParam,
	}

	for _, p := range cfg.PublicPaths {
		if p == "" || !strings.HasPrefix(p, "/") {
			return nil, fmt.Errorf("%w: public path %q must be absolute", ErrConfiguration, p)
		}
		// A public entry under the auth prefix would let rule 1 of the guard
		// swallow the redirect-away-from-auth-pages rule. Reject at startup.
		if rs.underAuthPrefix(p) {
			return nil, fmt.Errorf("%w: public path %q shadows auth-only prefix %q", ErrConfiguration, p, cfg.AuthPrefix)
		}
		rs.public[p] = struct{}{}
	}

	return rs, nil
}

// Classify returns the [RouteClass] for path. Auth-prefixed paths are
// AuthOnly, listed paths are Public, everything else defaults to Protected.
func (rs *RouteSet) Classify(path string) RouteClass {
	if rs.underAuthPrefix(path) {
		return RouteAuthOnly
	}
	if _, ok := rs.public[path]; ok {
		return RoutePublic
	}
	return RouteProtected
}

// LoginPath returns the configured login page path.
func (rs *RouteSet) LoginPath() string { return rs.loginPath }

// LandingPath returns the default authenticated landing page path.
func (rs *RouteSet) LandingPath() string { return rs.landingPath }

// ReturnParam returns the query parameter carrying the original path on a
// redirect to login.
func (rs *RouteSet) ReturnParam() string { return rs.returnParam }

func (rs *RouteSet) underAuthPrefix(path string) bool {
	return strings.HasPrefix(path, rs.authPrefix) || path+"/" == rs.authPrefix
}
