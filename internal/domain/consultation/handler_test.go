package consultation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	return NewHandler(newTestService()), echo.New()
}

func TestHandler_CreateConsultation(t *testing.T) {
	h, e := newTestHandler()

	patientID := uuid.New()
	doctorID := uuid.New()
	body := `{"patient_id":"` + patientID.String() + `","doctor_id":"` + doctorID.String() + `","reason":"fievre","fee":5000}`
	req := httptest.NewRequest(http.MethodPost, "/api/consultations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateConsultation(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var cons Consultation
	json.Unmarshal(rec.Body.Bytes(), &cons)
	if cons.Status != StatusOpen {
		t.Errorf("expected OPEN, got %s", cons.Status)
	}
}

func TestHandler_CreateConsultation_BadRequest(t *testing.T) {
	h, e := newTestHandler()

	body := `{"reason":"fievre"}`
	req := httptest.NewRequest(http.MethodPost, "/api/consultations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateConsultation(c); err == nil {
		t.Error("expected error for missing patient")
	}
}

func TestHandler_CloseConsultation(t *testing.T) {
	h, e := newTestHandler()

	cons := &Consultation{PatientID: uuid.New(), DoctorID: uuid.New(), Reason: "fievre"}
	h.svc.CreateConsultation(context.Background(), cons)

	body := `{"diagnosis":"paludisme simple"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(cons.ID.String())

	if err := h.CloseConsultation(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var closed Consultation
	json.Unmarshal(rec.Body.Bytes(), &closed)
	if closed.Status != StatusClosed {
		t.Errorf("expected CLOSED, got %s", closed.Status)
	}
}

func TestHandler_ListConsultations_ByPatient(t *testing.T) {
	h, e := newTestHandler()

	patientID := uuid.New()
	h.svc.CreateConsultation(context.Background(), &Consultation{PatientID: patientID, DoctorID: uuid.New(), Reason: "a"})
	h.svc.CreateConsultation(context.Background(), &Consultation{PatientID: uuid.New(), DoctorID: uuid.New(), Reason: "b"})

	req := httptest.NewRequest(http.MethodGet, "/?patient_id="+patientID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListConsultations(c); err != nil {
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

func TestHandler_GetConsultation_InvalidID(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetConsultation(c)
	if err == nil {
		t.Fatal("expected error")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
