package authgate

import (
	"context"
	"fmt"
	"time"

	"github.com/MrEthical07/authgate/credential"
	"github.com/MrEthical07/authgate/token"
)

// RefreshCredential silently exchanges the stored credential for a fresh one.
// Only available when the issuer contract exposes a refresh endpoint;
// otherwise [ErrRefreshDisabled] is returned and callers fall through to
// forced expiry.
//
// On success the new credential replaces the old one in place. The session
// state does not transition: refresh is invisible to subscribers.
func (e *Engine) RefreshCredential(ctx context.Context) error {
	if !e.config.Refresh.Enabled {
		return ErrRefreshDisabled
	}
	if e.isClosed() {
		return ErrEngineClosed
	}

	cred, ok := e.creds.Get()
	if !ok || cred.Token == "" {
		return ErrNotAuthenticated
	}

	// Issuers that rotate a dedicated refresh value get it back; otherwise
	// the bearer itself is exchanged.
	exchange := cred.RefreshToken
	if exchange == "" {
		exchange = cred.Token
	}

	auth, err := e.issuer.Refresh(ctx, exchange)
	if err != nil {
		mapped := mapIssuerError(err)
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, nil, mapped, nil)
		return mapped
	}

	rotated := credential.Credential{
		Token:        auth.Token,
		RefreshToken: auth.RefreshToken,
		IssuedAt:     time.Now(),
		ExpiresAt:    token.PeekExpiry(auth.Token),
	}
	if rotated.RefreshToken == "" {
		rotated.RefreshToken = cred.RefreshToken
	}
	if err := e.creds.Set(rotated); err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrCredentialStore, err)
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventCredentialDropped, false, nil, wrapped, nil)
		return wrapped
	}

	// The old credential's cache entry is keyed by the old token; the new
	// token misses and re-resolves. Drop the stale entry eagerly.
	e.cache.invalidate(ctx, cred.Token)
	e.cache.save(ctx, auth.Token, identityFromUser(auth.User))

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, nil, nil, nil)
	return nil
}
