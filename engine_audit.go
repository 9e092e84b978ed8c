package authgate

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	auditEventLoginSuccess       = "login_success"
	auditEventLoginFailure       = "login_failure"
	auditEventRegisterSuccess    = "register_success"
	auditEventRegisterFailure    = "register_failure"
	auditEventLogout             = "logout"
	auditEventLogoutNotifyFailed = "logout_notify_failed"
	auditEventResolveSuccess     = "resolve_success"
	auditEventResolveNoSession   = "resolve_no_session"
	auditEventResolveRejected    = "resolve_rejected"
	auditEventResolveError       = "resolve_error"
	auditEventResolveSuperseded  = "resolve_superseded"
	auditEventForcedExpiry       = "forced_expiry"
	auditEventRefreshSuccess     = "refresh_success"
	auditEventRefreshFailure     = "refresh_failure"
	auditEventCredentialDropped  = "credential_write_failed"
	auditEventStateChange        = "state_change"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	ident *Identity,
	err error,
	metadata map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Success:   success,
		State:     e.State().String(),
		Metadata:  metadata,
	}
	if ident != nil {
		event.UserID = ident.ID
		event.Email = ident.Email
	}
	if err != nil {
		event.Error = err.Error()
	}

	e.audit.Emit(ctx, event)
}
