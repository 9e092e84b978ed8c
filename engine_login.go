package authgate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrEthical07/authgate/credential"
	"github.com/MrEthical07/authgate/issuer"
	"github.com/MrEthical07/authgate/token"
)

// Login exchanges credentials for a session. On success the credential is
// stored first, then the session transitions directly to StateAuthenticated
// with the identity from the login payload; no separate resolution round-trip
// happens.
//
// On failure no transition occurs: the session remains in its prior state and
// the caller surfaces the error.
func (e *Engine) Login(ctx context.Context, email, password string) (*Identity, error) {
	if e.isClosed() {
		return nil, ErrEngineClosed
	}

	auth, err := e.issuer.Login(ctx, issuer.Credentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		mapped := mapIssuerError(err)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, nil, mapped, map[string]string{
			"email": email,
		})
		return nil, mapped
	}

	ident := identityFromUser(auth.User)

	if err := e.adoptCredential(ctx, auth.Token, auth.RefreshToken, ident); err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventCredentialDropped, false, ident, err, nil)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, ident, nil, nil)

	copied := *ident
	return &copied, nil
}

// Register creates an account. Success behaves exactly like a successful
// login: credential stored, session authenticated from the response payload.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*Identity, error) {
	if e.isClosed() {
		return nil, ErrEngineClosed
	}

	auth, err := e.issuer.Register(ctx, issuer.Registration{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		mapped := mapIssuerError(err)
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, nil, mapped, map[string]string{
			"email": req.Email,
		})
		return nil, mapped
	}

	ident := identityFromUser(auth.User)

	if err := e.adoptCredential(ctx, auth.Token, auth.RefreshToken, ident); err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventCredentialDropped, false, ident, err, nil)
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, ident, nil, nil)

	copied := *ident
	return &copied, nil
}

// adoptCredential persists the token and authenticates the session. The
// credential write happens BEFORE the transition: if the write fails the
// session must not claim to be logged in, because the guard and the API
// client would both see an empty store.
func (e *Engine) adoptCredential(ctx context.Context, rawToken, refreshToken string, ident *Identity) error {
	cred := credential.Credential{
		Token:        rawToken,
		RefreshToken: refreshToken,
		IssuedAt:     time.Now(),
		ExpiresAt:    token.PeekExpiry(rawToken),
	}
	if err := e.creds.Set(cred); err != nil {
		return fmt.Errorf("%w: %v", ErrCredentialStore, err)
	}

	e.cache.save(ctx, rawToken, ident)

	e.mu.Lock()
	e.transition(StateAuthenticated, ident, "")
	e.mu.Unlock()

	return nil
}

func identityFromUser(u issuer.User) *Identity {
	return &Identity{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
	}
}

// mapIssuerError translates issuer wire errors into the session taxonomy:
// unreachable/5xx is transport, 401/403 is an authentication failure carrying
// the server message, any other 4xx is a business-level RequestError, and an
// undecodable payload is malformed.
func mapIssuerError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, issuer.ErrUnreachable):
		return fmt.Errorf("%w: %v", ErrTransport, err)
	case errors.Is(err, issuer.ErrMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var se *issuer.StatusError
	if errors.As(err, &se) {
		if se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden {
			if se.Message != "" {
				return fmt.Errorf("%w: %s", ErrAuthenticationFailed, se.Message)
			}
			return ErrAuthenticationFailed
		}
		return &RequestError{
			Status:  se.Status,
			Message: se.Message,
		}
	}

	return fmt.Errorf("%w: %v", ErrTransport, err)
}
