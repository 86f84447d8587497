package authgate

import (
	"context"
	"errors"
	"log"
)

// Register describes the register operation and its observable behavior.
//
// Register hashes the password and creates the account with a token version
// of zero. A duplicate email fails loudly with [ErrAccountExists]. Any other
// storage failure is swallowed: it is logged, audited, and reported as
// (false, nil) so callers only learn that registration did not happen.
func (e *Engine) Register(ctx context.Context, email, pass string) (bool, error) {
	if e == nil || e.passwordHash == nil || e.userStore == nil {
		return false, ErrEngineNotReady
	}
	if email == "" || pass == "" {
		e.emitAudit(ctx, auditEventRegisterFailure, false, 0, ErrRegistrationInvalid, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "empty_input",
			}
		})
		return false, ErrRegistrationInvalid
	}

	hash, err := e.passwordHash.Hash(pass)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, 0, ErrRegistrationInvalid, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "hash_failed",
			}
		})
		return false, ErrRegistrationInvalid
	}
	pass = ""

	created, err := e.userStore.CreateUser(ctx, CreateUserInput{
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrStoreDuplicateEmail) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, 0, ErrAccountExists, func() map[string]string {
				return map[string]string{
					"email": email,
				}
			})
			return false, ErrAccountExists
		}
		log.Print("authgate: user creation failed")
		e.metricInc(MetricRegisterStorageFailure)
		e.emitAudit(ctx, auditEventRegisterStorageFailure, false, 0, err, func() map[string]string {
			return map[string]string{
				"email":  email,
				"reason": "store_create_failed",
			}
		})
		return false, nil
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, created.UserID, nil, func() map[string]string {
		return map[string]string{
			"email": email,
		}
	})
	return true, nil
}
