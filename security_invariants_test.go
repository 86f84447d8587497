package authgate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTamperedAccessTokenRejected(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)
	registerUser(t, engine, store, "alice@example.com", "correct-horse")

	result, err := engine.Login(context.Background(), nil, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	raw := []byte(result.AccessToken)
	raw[len(raw)-1] ^= 0x01

	if _, err := engine.Validate(context.Background(), string(raw)); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for tampered token, got %v", err)
	}
}

func TestTamperedRefreshTokenRejected(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)
	registerUser(t, engine, store, "alice@example.com", "correct-horse")

	result, err := engine.Login(context.Background(), nil, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	raw := []byte(result.RefreshToken)
	raw[len(raw)-1] ^= 0x01

	if _, err := engine.ValidateRefresh(context.Background(), string(raw)); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}

func TestTokenFamiliesNotInterchangeable(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)
	registerUser(t, engine, store, "alice@example.com", "correct-horse")

	result, err := engine.Login(context.Background(), nil, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// Refresh tokens must not open the gate and access tokens must not renew
	// sessions; the families are signed with different secrets.
	if _, err := engine.Validate(context.Background(), result.RefreshToken); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected refresh token to fail as access, got %v", err)
	}
	if _, err := engine.ValidateRefresh(context.Background(), result.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected access token to fail as refresh, got %v", err)
	}
}

func TestRefreshTokenExpires(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, func(cfg *Config) {
		cfg.JWT.RefreshTTL = time.Millisecond
	})
	registerUser(t, engine, store, "alice@example.com", "correct-horse")

	result, err := engine.Login(context.Background(), nil, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := engine.ValidateRefresh(context.Background(), result.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired refresh token, got %v", err)
	}
}

func TestRevocationIsPerUser(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)
	alice := registerUser(t, engine, store, "alice@example.com", "correct-horse")
	registerUser(t, engine, store, "bob@example.com", "correct-horse")

	aliceLogin, err := engine.Login(context.Background(), nil, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	bobLogin, err := engine.Login(context.Background(), nil, "bob@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := engine.RevokeAllSessions(context.Background(), alice.UserID); err != nil {
		t.Fatalf("RevokeAllSessions failed: %v", err)
	}

	if _, err := engine.ValidateRefresh(context.Background(), aliceLogin.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected alice's refresh token revoked, got %v", err)
	}
	if _, err := engine.ValidateRefresh(context.Background(), bobLogin.RefreshToken); err != nil {
		t.Fatalf("expected bob's refresh token to survive, got %v", err)
	}
}

func TestNewLoginSupersedesRevocation(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)
	user := registerUser(t, engine, store, "alice@example.com", "correct-horse")

	oldLogin, err := engine.Login(context.Background(), nil, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := engine.RevokeAllSessions(context.Background(), user.UserID); err != nil {
		t.Fatalf("RevokeAllSessions failed: %v", err)
	}

	newLogin, err := engine.Login(context.Background(), nil, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := engine.ValidateRefresh(context.Background(), oldLogin.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected pre-revocation token to stay revoked, got %v", err)
	}
	if _, err := engine.ValidateRefresh(context.Background(), newLogin.RefreshToken); err != nil {
		t.Fatalf("expected post-revocation login token to validate, got %v", err)
	}
}

func TestTokensFromForeignEngineRejected(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)
	registerUser(t, engine, store, "alice@example.com", "correct-horse")

	foreignStore := newMockUserStore()
	foreign := newTestEngine(t, foreignStore, func(cfg *Config) {
		cfg.JWT.AccessSecret = []byte("foreign-access-secret")
		cfg.JWT.RefreshSecret = []byte("foreign-refresh-secret")
	})
	registerUser(t, foreign, foreignStore, "alice@example.com", "correct-horse")

	result, err := foreign.Login(context.Background(), nil, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := engine.Validate(context.Background(), result.AccessToken); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected foreign access token rejected, got %v", err)
	}
	if _, err := engine.ValidateRefresh(context.Background(), result.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected foreign refresh token rejected, got %v", err)
	}
}
