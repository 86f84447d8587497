package authgate

import (
	"context"
	"time"

	"github.com/stormweyr/authgate/jwt"
	"github.com/stormweyr/authgate/password"
)

// Engine defines a public type used by authgate APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	audit        *auditDispatcher
	metrics      *Metrics
	passwordHash *password.Hasher
	tokens       *jwt.Manager
	userStore    UserStore
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
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

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Login describes the login operation and its observable behavior.
//
// Login verifies the email and password against the user store, issues an
// access token and a refresh token stamped with the user's current token
// version, and hands the refresh token to ch when ch is non-nil. Unknown
// email and wrong password are indistinguishable to the caller: both return
// [ErrInvalidCredentials]. Audit metadata still records the real reason for
// operators.
func (e *Engine) Login(ctx context.Context, ch RefreshChannel, email, pass string) (*LoginResult, error) {
	if e == nil || e.passwordHash == nil || e.tokens == nil || e.userStore == nil {
		return nil, ErrEngineNotReady
	}
	if email == "" || pass == "" {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, 0, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "empty_credentials",
			}
		})
		return nil, ErrInvalidCredentials
	}

	user, err := e.userStore.GetUserByEmail(ctx, email)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, 0, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "user_not_found",
			}
		})
		return nil, ErrInvalidCredentials
	}

	ok, err := e.passwordHash.Verify(pass, user.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "password_mismatch",
			}
		})
		return nil, ErrInvalidCredentials
	}
	pass = ""

	access, err := e.tokens.CreateAccess(user.UserID)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, err, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "issue_access_failed",
			}
		})
		return nil, err
	}

	refresh, err := e.tokens.CreateRefresh(user.UserID, user.TokenVersion)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, err, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "issue_refresh_failed",
			}
		})
		return nil, err
	}

	if ch != nil {
		ch.Send(refresh)
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.UserID, nil, func() map[string]string {
		return map[string]string{
			"email": email,
		}
	})

	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout clears the refresh token on ch. It never touches the user store:
// outstanding access tokens stay valid until they expire, and outstanding
// refresh tokens are only invalidated by [Engine.RevokeAllSessions].
func (e *Engine) Logout(ctx context.Context, ch RefreshChannel) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if ch != nil {
		ch.Send("")
	}
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, 0, nil, nil)
	return nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate checks an access token's signature and expiry and returns the
// authenticated user ID. It is the hot path: it never touches the user
// store. Every failure is reported as [ErrUnauthenticated].
func (e *Engine) Validate(ctx context.Context, tokenStr string) (*AuthResult, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { e.metrics.Observe(MetricValidateLatency, time.Since(start)) }()
	}

	claims, err := e.tokens.ParseAccess(tokenStr)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return &AuthResult{UserID: claims.UserID}, nil
}

// ValidateRefresh describes the validaterefresh operation and its observable behavior.
//
// ValidateRefresh checks a refresh token's signature and expiry, loads the
// user, and compares the token's version stamp against the store's current
// counter. A stale stamp means the token was revoked and returns
// [ErrTokenRevoked]; every other failure returns [ErrTokenInvalid].
func (e *Engine) ValidateRefresh(ctx context.Context, tokenStr string) (UserRecord, error) {
	if e == nil || e.tokens == nil || e.userStore == nil {
		return UserRecord{}, ErrEngineNotReady
	}

	claims, err := e.tokens.ParseRefresh(tokenStr)
	if err != nil {
		e.metricInc(MetricRefreshRejected)
		e.emitAudit(ctx, auditEventRefreshRejected, false, 0, ErrTokenInvalid, func() map[string]string {
			return map[string]string{
				"reason": "parse_failed",
			}
		})
		return UserRecord{}, ErrTokenInvalid
	}

	user, err := e.userStore.GetUserByID(ctx, claims.UserID)
	if err != nil {
		e.metricInc(MetricRefreshRejected)
		e.emitAudit(ctx, auditEventRefreshRejected, false, claims.UserID, ErrTokenInvalid, func() map[string]string {
			return map[string]string{
				"reason": "user_lookup_failed",
			}
		})
		return UserRecord{}, ErrTokenInvalid
	}

	if claims.TokenVersion != user.TokenVersion {
		e.metricInc(MetricRefreshRejected)
		e.emitAudit(ctx, auditEventRefreshRejected, false, user.UserID, ErrTokenRevoked, func() map[string]string {
			return map[string]string{
				"reason": "version_stale",
			}
		})
		return UserRecord{}, ErrTokenRevoked
	}

	e.metricInc(MetricRefreshValidated)
	e.emitAudit(ctx, auditEventRefreshValidated, true, user.UserID, nil, nil)

	return user, nil
}

// CurrentUser describes the currentuser operation and its observable behavior.
//
// CurrentUser resolves an access token to the full user record. Any failure,
// including a valid token for a since-deleted user, is reported as
// [ErrUnauthenticated].
func (e *Engine) CurrentUser(ctx context.Context, tokenStr string) (UserRecord, error) {
	if e == nil || e.tokens == nil || e.userStore == nil {
		return UserRecord{}, ErrEngineNotReady
	}

	claims, err := e.tokens.ParseAccess(tokenStr)
	if err != nil {
		return UserRecord{}, ErrUnauthenticated
	}

	user, err := e.userStore.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return UserRecord{}, ErrUnauthenticated
	}

	return user, nil
}

// ListUsers describes the listusers operation and its observable behavior.
//
// ListUsers enumerates all accounts when the configured store implements
// [UserLister], and returns [ErrListingUnsupported] otherwise.
func (e *Engine) ListUsers(ctx context.Context) ([]UserRecord, error) {
	if e == nil || e.userStore == nil {
		return nil, ErrEngineNotReady
	}

	lister, ok := e.userStore.(UserLister)
	if !ok {
		return nil, ErrListingUnsupported
	}

	return lister.ListUsers(ctx)
}
