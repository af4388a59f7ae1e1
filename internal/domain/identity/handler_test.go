package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/michaelkennf/hopital-api/internal/platform/auth"
)

func newTestHandler(t *testing.T) (*Handler, *echo.Echo) {
	t.Helper()
	svc := newTestService()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewHandler(svc, issuer), echo.New()
}

func TestHandler_Login(t *testing.T) {
	h, e := newTestHandler(t)
	seedUser(t, h.svc, "caissier@hopital.cd", "motdepasse", auth.RoleCaissier)

	body := `{"email":"caissier@hopital.cd","password":"motdepasse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User == nil || resp.User.Email != "caissier@hopital.cd" {
		t.Errorf("unexpected user payload: %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("password hash leaked in response")
	}
}

func TestHandler_Login_BadCredentials(t *testing.T) {
	h, e := newTestHandler(t)
	seedUser(t, h.svc, "caissier@hopital.cd", "motdepasse", auth.RoleCaissier)

	body := `{"email":"caissier@hopital.cd","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body401 map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body401)
	if body401["error"] == "" {
		t.Error("expected an error field in the body")
	}
}

func TestHandler_Login_MissingFields(t *testing.T) {
	h, e := newTestHandler(t)

	body := `{"email":"caissier@hopital.cd"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Verify(t *testing.T) {
	h, e := newTestHandler(t)
	u := seedUser(t, h.svc, "medecin@hopital.cd", "motdepasse", auth.RoleMedecin)

	token, err := h.issuer.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Verify(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]*User
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["user"] == nil || resp["user"].ID != u.ID {
		t.Errorf("unexpected user payload: %+v", resp["user"])
	}
}

func TestHandler_Verify_InvalidToken(t *testing.T) {
	h, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Verify(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestHandler_Verify_DeactivatedUser(t *testing.T) {
	h, e := newTestHandler(t)
	u := seedUser(t, h.svc, "parti@hopital.cd", "motdepasse", auth.RoleRH)

	token, _ := h.issuer.Issue(u.ID, u.Email, u.Role)

	inactive := false
	if _, err := h.svc.UpdateUser(context.Background(), u.ID, &UpdateUserRequest{Active: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Verify(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for deactivated account, got %d", rec.Code)
	}
}

func TestHandler_Logout(t *testing.T) {
	h, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_CreateUser(t *testing.T) {
	h, e := newTestHandler(t)

	body := `{"email":"nouveau@hopital.cd","password":"motdepasse","first_name":"Marie","last_name":"Ilunga","role":"LABORANTIN"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateUser(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var u User
	json.Unmarshal(rec.Body.Bytes(), &u)
	if u.Role != auth.RoleLaborantin {
		t.Errorf("expected LABORANTIN, got %s", u.Role)
	}
}

func TestHandler_CreateUser_Duplicate(t *testing.T) {
	h, e := newTestHandler(t)
	seedUser(t, h.svc, "nouveau@hopital.cd", "motdepasse", auth.RoleLaborantin)

	body := `{"email":"nouveau@hopital.cd","password":"motdepasse","role":"LABORANTIN"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateUser(c)
	if err == nil {
		t.Fatal("expected error for duplicate email")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_GetUser_NotFound(t *testing.T) {
	h, e := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7f8d2c1e-0000-0000-0000-000000000000")

	err := h.GetUser(c)
	if err == nil {
		t.Fatal("expected error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
