package authgate

import (
	"context"
	"errors"
)

// RefreshIdentity re-fetches the profile behind the current credential and
// replaces the cached identity wholesale. Used after profile edits; the
// identity is never patched field by field.
//
// Requires an established session. A mid-session rejection here behaves like
// any other: forced expiry. A transport failure leaves the existing identity
// in place and returns the error.
func (e *Engine) RefreshIdentity(ctx context.Context) (*Identity, error) {
	if e.isClosed() {
		return nil, ErrEngineClosed
	}

	e.mu.Lock()
	if e.state != StateAuthenticated {
		e.mu.Unlock()
		return nil, ErrNotAuthenticated
	}
	gen := e.generation
	e.mu.Unlock()

	cred, ok := e.creds.Get()
	if !ok || cred.Token == "" {
		return nil, ErrNotAuthenticated
	}

	// Bypass the cache: the point is to pick up server-side changes.
	e.cache.invalidate(ctx, cred.Token)

	user, err := e.issuer.Profile(ctx, cred.Token)
	if err != nil {
		mapped := mapIssuerError(err)
		if errors.Is(mapped, ErrAuthenticationFailed) {
			e.ForceExpire("credential rejected during identity refresh")
			return nil, mapped
		}
		return nil, mapped
	}

	ident := identityFromUser(*user)
	e.cache.save(ctx, cred.Token, ident)

	if !e.commitResolution(gen, StateAuthenticated, ident, "") {
		return nil, ErrResolutionSuperseded
	}

	copied := *ident
	return &copied, nil
}
