package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestJWTMiddleware_ValidToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	userID := uuid.New()
	token, err := issuer.Issue(userID, "caissier@hopital.cd", RoleCaissier)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) != userID.String() {
			t.Errorf("expected user id %s, got %s", userID, UserIDFromContext(ctx))
		}
		if UserEmailFromContext(ctx) != "caissier@hopital.cd" {
			t.Errorf("unexpected email %s", UserEmailFromContext(ctx))
		}
		if RoleFromContext(ctx) != RoleCaissier {
			t.Errorf("expected CAISSIER, got %s", RoleFromContext(ctx))
		}
		if c.Get("user_id").(string) != userID.String() {
			t.Error("expected user_id on echo context")
		}
		return c.String(http.StatusOK, "ok")
	}

	h := JWTMiddleware(issuer)(handler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		t.Error("handler should not run without a token")
		return nil
	}

	err := JWTMiddleware(issuer)(handler)(c)
	if err == nil {
		t.Fatal("expected error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		t.Error("handler should not run with an invalid token")
		return nil
	}

	err := JWTMiddleware(issuer)(handler)(c)
	if err == nil {
		t.Fatal("expected error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	if _, err := BearerToken(""); err != ErrMissingAuthHeader {
		t.Errorf("expected ErrMissingAuthHeader, got %v", err)
	}
	if _, err := BearerToken("Basic abc"); err != ErrInvalidAuthFormat {
		t.Errorf("expected ErrInvalidAuthFormat, got %v", err)
	}
	if _, err := BearerToken("Bearer"); err != ErrInvalidAuthFormat {
		t.Errorf("expected ErrInvalidAuthFormat for bare scheme, got %v", err)
	}

	tok, err := BearerToken("Bearer abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok != "abc123" {
		t.Errorf("expected abc123, got %s", tok)
	}

	// Scheme comparison is case insensitive.
	tok, err = BearerToken("bearer xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok != "xyz" {
		t.Errorf("expected xyz, got %s", tok)
	}
}
