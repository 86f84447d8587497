package authgate

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestRegisterCreatesAccount(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)

	ok, err := engine.Register(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !ok {
		t.Fatal("expected registration to report success")
	}

	user, err := store.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if user.PasswordHash == "correct-horse" {
		t.Fatal("expected stored hash, got plaintext")
	}
	if user.TokenVersion != 0 {
		t.Fatalf("expected token version 0, got %d", user.TokenVersion)
	}
}

func TestRegisterDuplicateFailsLoudly(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)
	registerUser(t, engine, store, "alice@example.com", "correct-horse")

	ok, err := engine.Register(context.Background(), "alice@example.com", "other-pass")
	if !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	if ok {
		t.Fatal("expected duplicate registration to report failure")
	}
}

func TestRegisterStorageFailureSwallowed(t *testing.T) {
	store := newMockUserStore()
	store.failCreate = fmt.Errorf("store down")
	engine := newTestEngine(t, store, nil)

	ok, err := engine.Register(context.Background(), "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("expected storage failure to be swallowed, got %v", err)
	}
	if ok {
		t.Fatal("expected registration to report failure")
	}
}

func TestRegisterEmptyInputRejected(t *testing.T) {
	engine := newTestEngine(t, newMockUserStore(), nil)

	for _, tc := range []struct{ email, pass string }{
		{"", "correct-horse"},
		{"alice@example.com", ""},
	} {
		ok, err := engine.Register(context.Background(), tc.email, tc.pass)
		if !errors.Is(err, ErrRegistrationInvalid) {
			t.Fatalf("expected ErrRegistrationInvalid for %q/%q, got %v", tc.email, tc.pass, err)
		}
		if ok {
			t.Fatal("expected registration to report failure")
		}
	}
}

func TestRegisteredAccountCanLogin(t *testing.T) {
	store := newMockUserStore()
	engine := newTestEngine(t, store, nil)
	registerUser(t, engine, store, "alice@example.com", "correct-horse")

	if _, err := engine.Login(context.Background(), nil, "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login after Register failed: %v", err)
	}
}
