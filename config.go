package authgate

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultCookieName  = "auth_token"
	defaultCookieTTL   = 7 * 24 * time.Hour
	defaultAuthPrefix  = "/auth/"
	defaultLoginPath   = "/auth/login"
	defaultLandingPath = "/dashboard"
	defaultReturnParam = "from"

	defaultResolveTimeout = 10 * time.Second
	defaultCacheTTL       = 5 * time.Minute
	defaultCachePrefix    = "agid"
)

// Config defines the full configuration tree for the session core.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	Credential CredentialConfig
	Issuer     IssuerConfig
	Routes     RoutesConfig
	Resolver   ResolverConfig
	Refresh    RefreshConfig
	Cache      CacheConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

// CredentialConfig describes the single credential scheme: a client-readable
// cookie holding the bearer value, attached to API calls as an Authorization
// header. The guard's presence check and the API client's header injection
// both depend on this being the only place the credential lives.
type CredentialConfig struct {
	CookieName string
	CookiePath string
	// TTL is the cookie lifetime used when the bearer value carries no
	// readable expiry of its own.
	TTL      time.Duration
	Secure   bool
	SameSite http.SameSite
}

// IssuerConfig locates the external token issuer / identity service.
type IssuerConfig struct {
	BaseURL      string
	LoginPath    string
	RegisterPath string
	LogoutPath   string
	ProfilePath  string
	Timeout      time.Duration
}

// RoutesConfig is the static route classification surface: an explicit list
// of public paths plus the convention that everything under AuthPrefix is
// auth-only and everything else is protected.
type RoutesConfig struct {
	PublicPaths []string
	AuthPrefix  string
	LoginPath   string
	LandingPath string
	ReturnParam string
}

// ResolverConfig bounds identity resolution. A hung resolution must not
// leave the session in StateResolving forever.
type ResolverConfig struct {
	Timeout time.Duration
}

// RefreshConfig enables the optional single silent refresh-and-retry on 401.
// Disabled unless the issuer contract exposes a refresh endpoint.
type RefreshConfig struct {
	Enabled bool
	Path    string
}

// CacheConfig controls the optional Redis-backed identity cache consulted by
// the resolver. The cache is an optimization, never an authority: forced
// expiry and logout always invalidate it.
type CacheConfig struct {
	Enabled     bool
	RedisPrefix string
	TTL         time.Duration
}

// AuditConfig controls dispatcher buffering behavior.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration matching the dashboard defaults:
// 7-day client-readable auth_token cookie, /auth/ auth-only prefix,
// /dashboard landing page, 10s bounded resolution.
func DefaultConfig() Config {
	return Config{
		Credential: CredentialConfig{
			CookieName: defaultCookieName,
			CookiePath: "/",
			TTL:        defaultCookieTTL,
			SameSite:   http.SameSiteLaxMode,
		},
		Issuer: IssuerConfig{
			LoginPath:    "/auth/login",
			RegisterPath: "/auth/register",
			LogoutPath:   "/auth/logout",
			ProfilePath:  "/users/profile",
			Timeout:      15 * time.Second,
		},
		Routes: RoutesConfig{
			PublicPaths: []string{"/"},
			AuthPrefix:  defaultAuthPrefix,
			LoginPath:   defaultLoginPath,
			LandingPath: defaultLandingPath,
			ReturnParam: defaultReturnParam,
		},
		Resolver: ResolverConfig{
			Timeout: defaultResolveTimeout,
		},
		Refresh: RefreshConfig{
			Enabled: false,
			Path:    "/auth/refresh",
		},
		Cache: CacheConfig{
			Enabled:     false,
			RedisPrefix: defaultCachePrefix,
			TTL:         defaultCacheTTL,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for startup-fatal problems. All
// violations are [ErrConfiguration]; nothing here is deferred to request
// time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Credential.CookieName) == "" {
		return fmt.Errorf("%w: credential cookie name required", ErrConfiguration)
	}
	if strings.ContainsAny(c.Credential.CookieName, " ;,") {
		return fmt.Errorf("%w: credential cookie name %q contains invalid characters", ErrConfiguration, c.Credential.CookieName)
	}
	if c.Credential.TTL <= 0 {
		return fmt.Errorf("%w: credential TTL must be positive", ErrConfiguration)
	}
	if strings.TrimSpace(c.Issuer.BaseURL) == "" {
		return fmt.Errorf("%w: issuer base URL required", ErrConfiguration)
	}
	if !strings.HasPrefix(c.Issuer.BaseURL, "http://") && !strings.HasPrefix(c.Issuer.BaseURL, "https://") {
		return fmt.Errorf("%w: issuer base URL %q must be http(s)", ErrConfiguration, c.Issuer.BaseURL)
	}
	for name, p := range map[string]string{
		"login":    c.Issuer.LoginPath,
		"register": c.Issuer.RegisterPath,
		"logout":   c.Issuer.LogoutPath,
		"profile":  c.Issuer.ProfilePath,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%w: issuer %s path %q must be absolute", ErrConfiguration, name, p)
		}
	}
	if c.Resolver.Timeout <= 0 {
		return fmt.Errorf("%w: resolver timeout must be positive", ErrConfiguration)
	}
	if c.Refresh.Enabled && !strings.HasPrefix(c.Refresh.Path, "/") {
		return fmt.Errorf("%w: refresh path %q must be absolute", ErrConfiguration, c.Refresh.Path)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: cache TTL must be positive when the cache is enabled", ErrConfiguration)
	}

	// Route configuration is validated by compilation; run it here so a bad
	// partition fails fast even when the caller never builds a guard.
	if _, err := NewRouteSet(c.Routes); err != nil {
		return err
	}

	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Routes.PublicPaths = append([]string(nil), cfg.Routes.PublicPaths...)
	return out
}
