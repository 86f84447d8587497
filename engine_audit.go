package authgate

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess           = "login_success"
	auditEventLoginFailure           = "login_failure"
	auditEventLogout                 = "logout"
	auditEventRegisterSuccess        = "register_success"
	auditEventRegisterFailure        = "register_failure"
	auditEventRegisterDuplicate      = "register_duplicate"
	auditEventRegisterStorageFailure = "register_storage_failure"
	auditEventRevokeAllSessions      = "revoke_all_sessions"
	auditEventRefreshValidated       = "refresh_validated"
	auditEventRefreshRejected        = "refresh_rejected"
)

// AuditErrorCode defines a public type used by authgate APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrUnauthenticated     AuditErrorCode = "unauthenticated"
	auditErrInvalidCredentials  AuditErrorCode = "invalid_credentials"
	auditErrInvalidToken        AuditErrorCode = "invalid_token"
	auditErrTokenRevoked        AuditErrorCode = "token_revoked"
	auditErrUserNotFound        AuditErrorCode = "user_not_found"
	auditErrDuplicate           AuditErrorCode = "duplicate"
	auditErrRegistrationInvalid AuditErrorCode = "registration_invalid"
	auditErrInternal            AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID int64,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		return auditErrUnauthenticated
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrTokenInvalid):
		return auditErrInvalidToken
	case errors.Is(err, ErrTokenRevoked):
		return auditErrTokenRevoked
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrAccountExists),
		errors.Is(err, ErrStoreDuplicateEmail):
		return auditErrDuplicate
	case errors.Is(err, ErrRegistrationInvalid):
		return auditErrRegistrationInvalid
	default:
		return auditErrInternal
	}
}
