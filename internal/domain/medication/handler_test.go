package medication

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/michaelkennf/hopital-api/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID uuid.UUID) echo.Context {
	ctx := context.WithValue(req.Context(), auth.UserIDKey, userID.String())
	return e.NewContext(req.WithContext(ctx), rec)
}

func TestHandler_Sell(t *testing.T) {
	h, e := newTestHandler()
	m := seedMedication(t, h.svc, "Paracetamol 500mg", 200, 10, 2)

	body := `{"medication_id":"` + m.ID.String() + `","quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New())

	if err := h.Sell(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var sale Sale
	json.Unmarshal(rec.Body.Bytes(), &sale)
	if sale.Total != 400 {
		t.Errorf("expected total 400, got %d", sale.Total)
	}
}

func TestHandler_Sell_InsufficientStock(t *testing.T) {
	h, e := newTestHandler()
	m := seedMedication(t, h.svc, "Quinine", 500, 1, 1)

	body := `{"medication_id":"` + m.ID.String() + `","quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, uuid.New())

	err := h.Sell(c)
	if err == nil {
		t.Fatal("expected error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %v", err)
	}
}

func TestHandler_Restock(t *testing.T) {
	h, e := newTestHandler()
	m := seedMedication(t, h.svc, "Amoxicilline", 300, 1, 5)

	body := `{"quantity":10}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(m.ID.String())

	if err := h.Restock(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var updated Medication
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Stock != 11 {
		t.Errorf("expected stock 11, got %d", updated.Stock)
	}
}

func TestHandler_ListMedications_LowStock(t *testing.T) {
	h, e := newTestHandler()
	seedMedication(t, h.svc, "Quinine", 500, 1, 5)
	seedMedication(t, h.svc, "Paracetamol 500mg", 200, 50, 5)

	req := httptest.NewRequest(http.MethodGet, "/?low_stock=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListMedications(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Total)
	}
}
