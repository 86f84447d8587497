package authgate

import "context"

// RevokeAllSessions describes the revokeallsessions operation and its observable behavior.
//
// RevokeAllSessions atomically increments the user's token version counter,
// which makes every outstanding refresh token for that user fail its version
// check. The increment does not validate existence: revoking an unknown ID
// still reports success. Outstanding access tokens are unaffected and expire
// on their own.
func (e *Engine) RevokeAllSessions(ctx context.Context, userID int64) (bool, error) {
	if e == nil || e.userStore == nil {
		return false, ErrEngineNotReady
	}

	if err := e.userStore.IncrementTokenVersion(ctx, userID); err != nil {
		e.emitAudit(ctx, auditEventRevokeAllSessions, false, userID, err, nil)
		return false, err
	}

	e.metricInc(MetricRevokeAll)
	e.emitAudit(ctx, auditEventRevokeAllSessions, true, userID, nil, nil)
	return true, nil
}
