package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/michaelkennf/hopital-api/internal/platform/auth"
)

func testUser() *User {
	return &User{
		ID:        uuid.New(),
		Email:     "caissier@hopital.cd",
		FirstName: "Marie",
		LastName:  "Kalala",
		Role:      auth.RoleCaissier,
		Active:    true,
	}
}

// newTestSession spins up a fake API and a session wired to it.
func newTestSession(t *testing.T, handler http.Handler) (*Session, *MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := NewMemoryStore()
	return NewSession(NewClient(srv.URL, store), store, zerolog.Nop()), store
}

func loginOKHandler(token string, user *User) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"token": token, "user": user})
	})
	return mux
}

func TestLogin_Success(t *testing.T) {
	user := testUser()
	s, store := newTestSession(t, loginOKHandler("tok-123", user))

	if err := s.Login(context.Background(), user.Email, "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := s.State()
	if state.User == nil || state.User.Email != user.Email {
		t.Error("expected user set after login")
	}
	if state.Token != "tok-123" {
		t.Errorf("expected token tok-123, got %q", state.Token)
	}
	if state.Err != "" {
		t.Errorf("expected no error message, got %q", state.Err)
	}

	stored, _ := store.Token()
	if stored != "tok-123" {
		t.Error("expected token persisted")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	})
	s, store := newTestSession(t, mux)

	err := s.Login(context.Background(), "x@y.z", "wrong")
	var loginErr *LoginError
	if !errors.As(err, &loginErr) || loginErr.Kind != KindCredentials {
		t.Fatalf("expected credential error, got %v", err)
	}

	state := s.State()
	if state.Err != MsgBadCredentials {
		t.Errorf("expected %q, got %q", MsgBadCredentials, state.Err)
	}
	if state.User != nil || state.Token != "" {
		t.Error("expected session left empty after failed login")
	}
	if stored, _ := store.Token(); stored != "" {
		t.Error("expected no token persisted")
	}
}

func TestLogin_ValidationMessagePassthrough(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "email and password are required"})
	})
	s, _ := newTestSession(t, mux)

	err := s.Login(context.Background(), "", "")
	var loginErr *LoginError
	if !errors.As(err, &loginErr) || loginErr.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if loginErr.Message != "email and password are required" {
		t.Errorf("expected backend message passed through, got %q", loginErr.Message)
	}
}

func TestLogin_ServerFault(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	s, _ := newTestSession(t, mux)

	err := s.Login(context.Background(), "x@y.z", "secret")
	var loginErr *LoginError
	if !errors.As(err, &loginErr) || loginErr.Kind != KindServer {
		t.Fatalf("expected server error, got %v", err)
	}
	if s.State().Err != MsgServerFault {
		t.Errorf("expected %q, got %q", MsgServerFault, s.State().Err)
	}
}

func TestLogin_Connectivity(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore
	store := NewMemoryStore()
	s := NewSession(NewClient(srv.URL, store), store, zerolog.Nop())

	err := s.Login(context.Background(), "x@y.z", "secret")
	var loginErr *LoginError
	if !errors.As(err, &loginErr) || loginErr.Kind != KindConnectivity {
		t.Fatalf("expected connectivity error, got %v", err)
	}
	if s.State().Err != MsgConnectivity {
		t.Errorf("expected %q, got %q", MsgConnectivity, s.State().Err)
	}
}

func TestLogout_ResetsEverything(t *testing.T) {
	user := testUser()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"token": "tok", "user": user})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError) // backend failure is not surfaced
	})
	s, store := newTestSession(t, mux)

	if err := s.Login(context.Background(), user.Email, "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Logout(context.Background())

	if got := s.State(); got != (State{}) {
		t.Errorf("expected empty session, got %+v", got)
	}
	if stored, _ := store.Token(); stored != "" {
		t.Error("expected durable token cleared")
	}
}

func TestCheckAuth_NoToken(t *testing.T) {
	s, _ := newTestSession(t, http.NotFoundHandler())
	s.CheckAuth(context.Background())

	if got := s.State(); got != (State{}) {
		t.Errorf("expected empty session, got %+v", got)
	}
}

func TestCheckAuth_ReplacesUserKeepsToken(t *testing.T) {
	user := testUser()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"user": user})
	})
	s, store := newTestSession(t, mux)
	store.SaveToken("tok-abc")

	s.CheckAuth(context.Background())

	state := s.State()
	if state.User == nil || state.User.ID != user.ID {
		t.Error("expected user replaced from verify")
	}
	if state.Token != "tok-abc" {
		t.Errorf("expected existing token kept, got %q", state.Token)
	}
	if state.IsLoading {
		t.Error("expected loading finished")
	}
}

func TestCheckAuth_InvalidTokenResetsSilently(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	s, store := newTestSession(t, mux)
	store.SaveToken("expired")

	s.CheckAuth(context.Background())

	// The reset is exact: no error message survives a failed verify.
	if got := s.State(); got != (State{}) {
		t.Errorf("expected exact empty session, got %+v", got)
	}
	if stored, _ := store.Token(); stored != "" {
		t.Error("expected durable token cleared")
	}
}

func TestUpdateUser_KeepsToken(t *testing.T) {
	user := testUser()
	s, _ := newTestSession(t, loginOKHandler("tok", user))
	if err := s.Login(context.Background(), user.Email, "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	renamed := *user
	renamed.FirstName = "Grace"
	if err := s.UpdateUser(&renamed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := s.State()
	if state.User.FirstName != "Grace" {
		t.Error("expected user replaced")
	}
	if state.Token != "tok" {
		t.Error("expected token untouched")
	}
}

func TestUpdateUser_RefusesUserWithoutToken(t *testing.T) {
	s, _ := newTestSession(t, http.NotFoundHandler())
	if err := s.UpdateUser(testUser()); err == nil {
		t.Error("expected error setting a user on a tokenless session")
	}
}

func TestClearError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	s, _ := newTestSession(t, mux)

	s.Login(context.Background(), "x@y.z", "wrong")
	if s.State().Err == "" {
		t.Fatal("expected an error message")
	}
	s.ClearError()
	if s.State().Err != "" {
		t.Error("expected error cleared")
	}
}
