package authgate

import (
	"context"
)

// Logout ends the session. The local teardown is synchronous and cannot fail:
// by the time Logout returns, the credential is cleared and the session is
// StateUnauthenticated, so an immediately following navigation is judged
// against the logged-out state.
//
// The issuer notification is best-effort. Its failure is audited and counted
// but never surfaced: remote session records expire on their own.
func (e *Engine) Logout(ctx context.Context) {
	cred, had := e.creds.Get()

	e.mu.Lock()
	_ = e.creds.Clear()
	e.transition(StateUnauthenticated, nil, "")
	e.mu.Unlock()

	if had {
		e.cache.invalidate(ctx, cred.Token)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, nil, nil, nil)

	if had {
		if err := e.issuer.Logout(ctx, cred.Token); err != nil {
			e.metricInc(MetricLogoutNotifyFailed)
			e.emitAudit(ctx, auditEventLogoutNotifyFailed, false, nil, err, nil)
		}
	}
}

// ForceExpire marks an established session as expired: credential cleared,
// cache invalidated, state moved to StateExpired with reason. The state gate
// makes it idempotent, so concurrent failing API calls produce exactly one
// expiry transition.
//
// Sessions that are not established (Unauthenticated, Expired, Error) are
// left untouched.
func (e *Engine) ForceExpire(reason string) {
	e.mu.Lock()
	if e.state != StateAuthenticated && e.state != StateResolving {
		e.mu.Unlock()
		return
	}

	cred, had := e.creds.Get()
	_ = e.creds.Clear()
	e.transition(StateExpired, nil, reason)
	e.mu.Unlock()

	if had {
		e.cache.invalidate(context.Background(), cred.Token)
	}

	e.metricInc(MetricForcedExpiry)
	e.emitAudit(context.Background(), auditEventForcedExpiry, false, nil, nil, map[string]string{
		"reason": reason,
	})
}
