package authgate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrEthical07/authgate/issuer"
)

// Resolve exchanges the stored credential for an identity. It is the startup
// path: callers invoke it once after construction (and again on demand, e.g.
// a retry affordance after StateError).
//
// With no stored credential the session settles in StateUnauthenticated
// without any network call and Resolve returns [ErrNoSession]. Otherwise the
// session passes through StateResolving and terminates, within the configured
// timeout, in exactly one of StateAuthenticated, StateUnauthenticated
// (credential rejected) or StateError (transport failure, user NOT logged
// out).
//
// A resolution that completes after the session has moved on (logout, new
// login) discards its result and returns [ErrResolutionSuperseded].
func (e *Engine) Resolve(ctx context.Context) (*Identity, error) {
	if e.isClosed() {
		return nil, ErrEngineClosed
	}

	cred, ok := e.creds.Get()
	if !ok || cred.Token == "" {
		e.mu.Lock()
		if e.state != StateUnauthenticated {
			e.transition(StateUnauthenticated, nil, "")
		}
		e.mu.Unlock()
		e.metricInc(MetricResolveNoSession)
		e.emitAudit(ctx, auditEventResolveNoSession, true, nil, nil, nil)
		return nil, ErrNoSession
	}

	e.mu.Lock()
	e.transition(StateResolving, nil, "")
	gen := e.generation
	e.mu.Unlock()

	timeout := e.config.Resolver.Timeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	ident, err := e.resolveIdentity(ctx, cred.Token)
	if e.metrics != nil {
		e.metrics.Observe(MetricResolveLatency, time.Since(start))
	}

	switch {
	case err == nil:
		if !e.commitResolution(gen, StateAuthenticated, ident, "") {
			return nil, e.supersededResult(ctx)
		}
		e.metricInc(MetricResolveSuccess)
		e.emitAudit(ctx, auditEventResolveSuccess, true, ident, nil, nil)
		copied := *ident
		return &copied, nil

	case errors.Is(err, ErrAuthenticationFailed):
		// The credential was presented and rejected before any session was
		// established. That is "not logged in", not "session expired": clear
		// everything and settle in StateUnauthenticated.
		if !e.dropCredential(gen, cred.Token, StateUnauthenticated, "") {
			return nil, e.supersededResult(ctx)
		}
		e.metricInc(MetricResolveRejected)
		e.emitAudit(ctx, auditEventResolveRejected, false, nil, err, nil)
		return nil, err

	default:
		// Transport-class failure: identity is unknown, not invalid. Keep the
		// credential, surface a retryable error state.
		if !e.commitResolution(gen, StateError, nil, err.Error()) {
			return nil, e.supersededResult(ctx)
		}
		e.metricInc(MetricResolveError)
		e.emitAudit(ctx, auditEventResolveError, false, nil, err, nil)
		return nil, err
	}
}

// resolveIdentity fetches the identity behind token, consulting the optional
// cache first. Cache results never gate auth decisions; only a live issuer
// answer can reject a credential.
func (e *Engine) resolveIdentity(ctx context.Context, tok string) (*Identity, error) {
	if ident, hit := e.cache.get(ctx, tok); hit {
		e.metricInc(MetricIdentityCacheHit)
		return ident, nil
	}
	if e.cache != nil {
		e.metricInc(MetricIdentityCacheMiss)
	}

	user, err := e.issuer.Profile(ctx, tok)
	if err != nil {
		var se *issuer.StatusError
		if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: status %d", ErrAuthenticationFailed, se.Status)
		}
		return nil, mapIssuerError(err)
	}

	ident := identityFromUser(*user)
	e.cache.save(ctx, tok, ident)
	return ident, nil
}

// commitResolution applies a resolution outcome only if the session has not
// moved on since the resolution started.
func (e *Engine) commitResolution(gen uint64, to SessionState, ident *Identity, reason string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.generation != gen {
		return false
	}
	e.transition(to, ident, reason)
	return true
}

// dropCredential clears the credential store and cache and transitions, all
// gated on the generation check so a superseded resolution can never clear a
// newer login's credential.
func (e *Engine) dropCredential(gen uint64, tok string, to SessionState, reason string) bool {
	e.mu.Lock()
	if e.generation != gen {
		e.mu.Unlock()
		return false
	}
	_ = e.creds.Clear()
	e.transition(to, nil, reason)
	e.mu.Unlock()

	e.cache.invalidate(context.Background(), tok)
	return true
}

func (e *Engine) supersededResult(ctx context.Context) error {
	e.metricInc(MetricResolveSuperseded)
	e.emitAudit(ctx, auditEventResolveSuperseded, false, nil, ErrResolutionSuperseded, nil)
	return ErrResolutionSuperseded
}
