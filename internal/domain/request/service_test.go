package request

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/michaelkennf/hopital-api/internal/platform/auth"
)

type mockRepo struct {
	requests map[uuid.UUID]*Request
}

func newMockRepo() *mockRepo {
	return &mockRepo{requests: make(map[uuid.UUID]*Request)}
}

func (m *mockRepo) Create(_ context.Context, req *Request) error {
	req.ID = uuid.New()
	req.CreatedAt = time.Now().UTC()
	m.requests[req.ID] = req
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Request, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	return req, nil
}

func (m *mockRepo) Update(_ context.Context, req *Request) error {
	if _, ok := m.requests[req.ID]; !ok {
		return fmt.Errorf("no rows")
	}
	m.requests[req.ID] = req
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, limit, offset int) ([]*Request, int, error) {
	var result []*Request
	for _, req := range m.requests {
		if f.RequestedBy != nil && req.RequestedBy != *f.RequestedBy {
			continue
		}
		if f.Type != "" && req.Type != f.Type {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		result = append(result, req)
	}
	return result, len(result), nil
}

func newTestService() *Service {
	return NewService(newMockRepo())
}

func seedRequest(t *testing.T, svc *Service, reqType string, amount int64) *Request {
	t.Helper()
	req := &Request{
		RequestedBy: uuid.New(),
		Type:        reqType,
		Description: "Demande de test",
		Amount:      amount,
	}
	if err := svc.CreateRequest(context.Background(), req); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return req
}

// -- Tests --

func TestCreateRequest(t *testing.T) {
	svc := newTestService()
	req := seedRequest(t, svc, TypeSalaryAdvance, 5000)

	if req.Status != StatusPending {
		t.Errorf("expected status %s, got %s", StatusPending, req.Status)
	}
	if req.DecidedBy != nil || req.DecidedAt != nil {
		t.Error("expected no decision on a new request")
	}
}

func TestCreateRequest_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  *Request
	}{
		{"missing requester", &Request{Type: TypeCredit, Description: "x", Amount: 100}},
		{"invalid type", &Request{RequestedBy: uuid.New(), Type: "VACATION", Description: "x", Amount: 100}},
		{"blank description", &Request{RequestedBy: uuid.New(), Type: TypeCredit, Description: " ", Amount: 100}},
		{"zero amount credit", &Request{RequestedBy: uuid.New(), Type: TypeCredit, Description: "x", Amount: 0}},
		{"negative supply amount", &Request{RequestedBy: uuid.New(), Type: TypeSupply, Description: "x", Amount: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.CreateRequest(ctx, tc.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestCreateRequest_SupplyWithoutAmount(t *testing.T) {
	svc := newTestService()
	req := &Request{RequestedBy: uuid.New(), Type: TypeSupply, Description: "Gants stériles"}
	if err := svc.CreateRequest(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecide_Approve(t *testing.T) {
	svc := newTestService()
	req := seedRequest(t, svc, TypeSalaryAdvance, 5000)
	validator := uuid.New()

	out, err := svc.Decide(context.Background(), req.ID, validator, auth.RoleRH, true, "OK pour ce mois")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != StatusApproved {
		t.Errorf("expected status %s, got %s", StatusApproved, out.Status)
	}
	if out.DecidedBy == nil || *out.DecidedBy != validator {
		t.Error("expected decided_by to record the validator")
	}
	if out.DecidedAt == nil {
		t.Error("expected decided_at to be set")
	}
	if out.DecisionNote == nil || *out.DecisionNote != "OK pour ce mois" {
		t.Error("expected decision note to be kept")
	}
}

func TestDecide_Reject(t *testing.T) {
	svc := newTestService()
	req := seedRequest(t, svc, TypeCredit, 20000)

	out, err := svc.Decide(context.Background(), req.ID, uuid.New(), auth.RolePDG, false, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != StatusRejected {
		t.Errorf("expected status %s, got %s", StatusRejected, out.Status)
	}
	if out.DecisionNote != nil {
		t.Error("expected no note when none was given")
	}
}

func TestDecide_AlreadyDecided(t *testing.T) {
	svc := newTestService()
	req := seedRequest(t, svc, TypeSalaryAdvance, 5000)

	if _, err := svc.Decide(context.Background(), req.ID, uuid.New(), auth.RoleRH, true, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Decide(context.Background(), req.ID, uuid.New(), auth.RoleRH, false, ""); err == nil {
		t.Error("expected error on a second decision")
	}
}

func TestDecide_RoleMatrix(t *testing.T) {
	cases := []struct {
		name    string
		role    auth.Role
		reqType string
		allowed bool
	}{
		{"rh approves salary advance", auth.RoleRH, TypeSalaryAdvance, true},
		{"rh approves credit", auth.RoleRH, TypeCredit, true},
		{"rh cannot approve supply", auth.RoleRH, TypeSupply, false},
		{"pdg approves supply", auth.RolePDG, TypeSupply, true},
		{"pdg approves credit", auth.RolePDG, TypeCredit, true},
		{"admin approves supply", auth.RoleAdmin, TypeSupply, true},
		{"cashier cannot approve", auth.RoleCaissier, TypeSalaryAdvance, false},
		{"logistics cannot self-approve supply", auth.RoleLogisticien, TypeSupply, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService()
			req := seedRequest(t, svc, tc.reqType, 1000)

			_, err := svc.Decide(context.Background(), req.ID, uuid.New(), tc.role, true, "")
			if tc.allowed && err != nil {
				t.Errorf("expected decision to be allowed, got %v", err)
			}
			if !tc.allowed && err != ErrNotAllowed {
				t.Errorf("expected ErrNotAllowed, got %v", err)
			}
		})
	}
}

func TestListRequests_Filters(t *testing.T) {
	svc := newTestService()
	seedRequest(t, svc, TypeSupply, 0)
	pending := seedRequest(t, svc, TypeCredit, 1000)
	decided := seedRequest(t, svc, TypeCredit, 2000)
	if _, err := svc.Decide(context.Background(), decided.ID, uuid.New(), auth.RoleRH, true, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, total, err := svc.ListRequests(context.Background(), Filter{Type: TypeCredit, Status: StatusPending}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 request, got %d", total)
	}
	if got[0].ID != pending.ID {
		t.Error("expected the pending credit request")
	}
}

func TestListRequests_InvalidFilter(t *testing.T) {
	svc := newTestService()
	if _, _, err := svc.ListRequests(context.Background(), Filter{Type: "VACATION"}, 20, 0); err == nil {
		t.Error("expected error for invalid type filter")
	}
	if _, _, err := svc.ListRequests(context.Background(), Filter{Status: "OPEN"}, 20, 0); err == nil {
		t.Error("expected error for invalid status filter")
	}
}
