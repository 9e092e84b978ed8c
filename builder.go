package authgate

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrEthical07/authgate/credential"
	"github.com/MrEthical07/authgate/internal/stores"
	"github.com/MrEthical07/authgate/issuer"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by authgate APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	httpClient *http.Client
	creds      credential.Store
	auditSink  AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithHTTPClient overrides the HTTP client used for issuer calls. The default
// client applies the configured issuer timeout.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithCredentialStore overrides the credential store. The default is an
// in-memory store; servers bridging browser cookies typically keep the default
// and hydrate it per request.
func (b *Builder) WithCredentialStore(store credential.Store) *Builder {
	b.creds = store
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, compiles the route set, and constructs
// the [Engine]. All configuration failures surface here, never at request
// time.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	routes, err := NewRouteSet(cfg.Routes)
	if err != nil {
		return nil, err
	}

	refreshPath := ""
	if cfg.Refresh.Enabled {
		refreshPath = cfg.Refresh.Path
	}
	issuerClient, err := issuer.NewClient(issuer.Config{
		BaseURL:      cfg.Issuer.BaseURL,
		LoginPath:    cfg.Issuer.LoginPath,
		RegisterPath: cfg.Issuer.RegisterPath,
		LogoutPath:   cfg.Issuer.LogoutPath,
		ProfilePath:  cfg.Issuer.ProfilePath,
		RefreshPath:  refreshPath,
		Timeout:      cfg.Issuer.Timeout,
	}, b.httpClient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	creds := b.creds
	if creds == nil {
		creds = credential.NewMemoryStore()
	}

	var cache *identityCache
	if cfg.Cache.Enabled {
		if b.redis == nil {
			return nil, errors.New("identity cache requires redis client")
		}
		cache = newIdentityCache(
			stores.NewIdentityCacheStore(b.redis, cfg.Cache.RedisPrefix, cfg.Cache.TTL),
		)
	}

	e := &Engine{
		config:      cfg,
		routes:      routes,
		creds:       creds,
		issuer:      issuerClient,
		cache:       cache,
		audit:       newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:     NewMetrics(cfg.Metrics),
		subscribers: make(map[uint64]Subscriber),
		changedAt:   time.Now(),
	}

	b.built = true
	return e, nil
}
