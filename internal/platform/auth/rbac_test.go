package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRole(e *echo.Echo, role Role, rec *httptest.ResponseRecorder) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	ctx := context.WithValue(req.Context(), UserRoleKey, role)
	req = req.WithContext(ctx)
	return e.NewContext(req, rec)
}

func TestRequireRole_Allowed(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := contextWithRole(e, RoleCaissier, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	h := RequireRole(RoleCaissier)(handler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_AdminAlwaysPasses(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := contextWithRole(e, RoleAdmin, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	h := RequireRole(RoleLaborantin)(handler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_ForbiddenCarriesRedirect(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := contextWithRole(e, RoleMedecin, rec)

	handler := func(c echo.Context) error {
		t.Error("handler should not run for the wrong role")
		return nil
	}

	h := RequireRole(RoleCaissier)(handler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["redirect"] != "/medecin" {
		t.Errorf("expected redirect /medecin, got %s", body["redirect"])
	}
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := contextWithRole(e, RoleAgentMaternite, rec)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	h := RequireRole(RoleAgentHospitalisation, RoleAgentMaternite)(handler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_NoRoleOnContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		t.Error("handler should not run without a role")
		return nil
	}

	h := RequireRole(RoleCaissier)(handler)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}
