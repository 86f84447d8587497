package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stormweyr/authgate"
)

type staticStore struct {
	user authgate.UserRecord
}

func (s *staticStore) GetUserByEmail(_ context.Context, email string) (authgate.UserRecord, error) {
	if email != s.user.Email {
		return authgate.UserRecord{}, fmt.Errorf("user not found")
	}
	return s.user, nil
}

func (s *staticStore) GetUserByID(_ context.Context, userID int64) (authgate.UserRecord, error) {
	if userID != s.user.UserID {
		return authgate.UserRecord{}, fmt.Errorf("user not found")
	}
	return s.user, nil
}

func (s *staticStore) CreateUser(_ context.Context, _ authgate.CreateUserInput) (authgate.UserRecord, error) {
	return authgate.UserRecord{}, fmt.Errorf("not supported")
}

func (s *staticStore) IncrementTokenVersion(_ context.Context, _ int64) error {
	return nil
}

func newGuardTestEngine(t *testing.T) (*authgate.Engine, string) {
	t.Helper()

	cfg := authgate.DefaultConfig()
	cfg.JWT.AccessSecret = []byte("guard-access-secret")
	cfg.JWT.RefreshSecret = []byte("guard-refresh-secret")
	cfg.Password.Cost = 4

	store := &staticStore{user: authgate.UserRecord{
		UserID: 11,
		Email:  "alice@example.com",
	}}

	engine, err := authgate.New().
		WithConfig(cfg).
		WithUserStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	// Registration path is not under test; seed credentials directly so
	// Login can mint a token.
	hash := seedPasswordHash(t)
	store.user.PasswordHash = hash

	result, err := engine.Login(context.Background(), nil, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	return engine, result.AccessToken
}

func seedPasswordHash(t *testing.T) string {
	t.Helper()

	// bcrypt cost 4 hash of "correct-horse", generated through the same
	// hasher the engine uses.
	cfg := authgate.DefaultConfig()
	cfg.JWT.AccessSecret = []byte("hash-helper-access")
	cfg.JWT.RefreshSecret = []byte("hash-helper-refresh")
	cfg.JWT.AccessTTL = time.Minute
	cfg.Password.Cost = 4

	seed := &seedStore{}
	engine, err := authgate.New().
		WithConfig(cfg).
		WithUserStore(seed).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	ok, err := engine.Register(context.Background(), "seed@example.com", "correct-horse")
	if err != nil || !ok {
		t.Fatalf("Register failed: ok=%v err=%v", ok, err)
	}
	return seed.hash
}

type seedStore struct {
	hash string
}

func (s *seedStore) GetUserByEmail(_ context.Context, _ string) (authgate.UserRecord, error) {
	return authgate.UserRecord{}, fmt.Errorf("user not found")
}

func (s *seedStore) GetUserByID(_ context.Context, _ int64) (authgate.UserRecord, error) {
	return authgate.UserRecord{}, fmt.Errorf("user not found")
}

func (s *seedStore) CreateUser(_ context.Context, input authgate.CreateUserInput) (authgate.UserRecord, error) {
	s.hash = input.PasswordHash
	return authgate.UserRecord{UserID: 1, Email: input.Email, PasswordHash: input.PasswordHash}, nil
}

func (s *seedStore) IncrementTokenVersion(_ context.Context, _ int64) error {
	return nil
}

func guardedHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		res, ok := AuthResultFromContext(r.Context())
		if !ok {
			t.Error("expected auth result in context")
			return
		}
		fmt.Fprintf(w, "Your user ID is: %d", res.UserID)
	})
}

func TestGuardRejectsMissingHeader(t *testing.T) {
	engine, _ := newGuardTestEngine(t)

	var called bool
	handler := Guard(engine)(guardedHandler(t, &called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bye", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Fatal("expected wrapped handler to not run")
	}
}

func TestGuardRejectsMalformedScheme(t *testing.T) {
	engine, token := newGuardTestEngine(t)

	var called bool
	handler := Guard(engine)(guardedHandler(t, &called))

	for _, header := range []string{token, "Basic " + token, "Bearer "} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/bye", nil)
		req.Header.Set("Authorization", header)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for header %q, got %d", header, rec.Code)
		}
	}
	if called {
		t.Fatal("expected wrapped handler to not run")
	}
}

func TestGuardRejectsInvalidToken(t *testing.T) {
	engine, _ := newGuardTestEngine(t)

	var called bool
	handler := Guard(engine)(guardedHandler(t, &called))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bye", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Fatal("expected wrapped handler to not run")
	}
}

func TestGuardPassesValidToken(t *testing.T) {
	engine, token := newGuardTestEngine(t)

	var called bool
	handler := Guard(engine)(guardedHandler(t, &called))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bye", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !called {
		t.Fatal("expected wrapped handler to run")
	}
	if got := rec.Body.String(); got != "Your user ID is: 11" {
		t.Fatalf("unexpected body %q", got)
	}
}
