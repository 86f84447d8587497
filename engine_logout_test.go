package authgate

import (
	"context"
	"fmt"
	"testing"
)

func TestLogoutClearsChannel(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)

	ch := &stubChannel{}
	if err := engine.Logout(context.Background(), ch); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if len(ch.sent) != 1 || ch.sent[0] != "" {
		t.Fatalf("expected a single empty send, got %v", ch.sent)
	}
}

func TestLogoutWithoutChannel(t *testing.T) {
	engine := newTestEngine(t, newMockUserStore(), nil)

	if err := engine.Logout(context.Background(), nil); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
}

func TestLogoutNeverTouchesStore(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)

	store.failGetByEmail = fmt.Errorf("store down")
	store.failGetByID = fmt.Errorf("store down")
	store.failIncrement = fmt.Errorf("store down")

	if err := engine.Logout(context.Background(), &stubChannel{}); err != nil {
		t.Fatalf("Logout failed during store outage: %v", err)
	}
}

func TestLogoutLeavesTokensValid(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)
	registerUser(t, engine, store, "alice@example.com", "correct-horse")

	result, err := engine.Login(context.Background(), nil, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := engine.Logout(context.Background(), &stubChannel{}); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	// Logout only clears the cookie. Full invalidation requires
	// RevokeAllSessions.
	if _, err := engine.Validate(context.Background(), result.AccessToken); err != nil {
		t.Fatalf("expected access token to survive logout, got %v", err)
	}
	if _, err := engine.ValidateRefresh(context.Background(), result.RefreshToken); err != nil {
		t.Fatalf("expected refresh token to survive logout, got %v", err)
	}
}
