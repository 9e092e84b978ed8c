package authgate

import (
	"sync"
	"time"

	"github.com/MrEthical07/authgate/credential"
	"github.com/MrEthical07/authgate/issuer"
)

// Engine defines a public type used by authgate APIs.
//
// Engine owns the session state machine. All transitions happen under a
// single mutex; subscribers observe them synchronously in transition order.
// UI consumers read state through [Engine.Snapshot] and never mutate it.
type Engine struct {
	config  Config
	routes  *RouteSet
	creds   credential.Store
	issuer  *issuer.Client
	cache   *identityCache
	audit   *auditDispatcher
	metrics *Metrics

	mu          sync.Mutex
	state       SessionState
	identity    *Identity
	reason      string
	generation  uint64
	changedAt   time.Time
	subscribers map[uint64]Subscriber
	nextSubID   uint64
	closed      bool
}

// State returns the current session state.
func (e *Engine) State() SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Identity returns a copy of the resolved identity, or nil outside
// StateAuthenticated.
func (e *Engine) Identity() *Identity {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.identity == nil {
		return nil
	}
	ident := *e.identity
	return &ident
}

// Snapshot returns a point-in-time copy of the session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		State:      e.state,
		Reason:     e.reason,
		Generation: e.generation,
		ChangedAt:  e.changedAt,
	}
	if e.identity != nil {
		ident := *e.identity
		s.Identity = &ident
	}
	return s
}

// HasCredential reports whether a credential is currently stored. This is the
// presence-only check the route guard depends on: O(1), no I/O, no validity
// judgment.
func (e *Engine) HasCredential() bool {
	if e == nil {
		return false
	}
	cred, ok := e.creds.Get()
	return ok && cred.Token != ""
}

// Credentials exposes the engine's credential store. Middleware uses it to
// hydrate the store from a request cookie; the API client uses it to attach
// the bearer header.
func (e *Engine) Credentials() credential.Store {
	return e.creds
}

// Routes returns the compiled route classification.
func (e *Engine) Routes() *RouteSet {
	return e.routes
}

// CookieConfig returns the persistence cookie settings derived from the
// engine configuration.
func (e *Engine) CookieConfig() credential.CookieConfig {
	return credential.CookieConfig{
		Name:     e.config.Credential.CookieName,
		Path:     e.config.Credential.CookiePath,
		TTL:      e.config.Credential.TTL,
		Secure:   e.config.Credential.Secure,
		SameSite: e.config.Credential.SameSite,
	}
}

// Subscribe registers a callback for every subsequent state transition and
// returns an unsubscribe function. The callback runs synchronously inside the
// transition and must not call Engine mutators or block.
func (e *Engine) Subscribe(fn Subscriber) func() {
	if fn == nil {
		return func() {}
	}

	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subscribers, id)
		e.mu.Unlock()
	}
}

// transition moves the state machine. Callers must hold e.mu. Every call bumps
// the generation counter so in-flight resolutions started before the
// transition can detect they have been superseded.
func (e *Engine) transition(to SessionState, ident *Identity, reason string) StateChange {
	from := e.state
	e.state = to
	e.identity = ident
	e.reason = reason
	e.generation++
	e.changedAt = time.Now()

	change := StateChange{
		From:       from,
		To:         to,
		Reason:     reason,
		Generation: e.generation,
	}
	if ident != nil {
		copied := *ident
		change.Identity = &copied
	}

	for _, fn := range e.subscribers {
		fn(change)
	}
	return change
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Metric increments a counter on behalf of out-of-package collaborators (the
// route guard, the API client).
func (e *Engine) Metric(id MetricID) {
	e.metricInc(id)
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}
