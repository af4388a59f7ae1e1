package request

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/michaelkennf/hopital-api/internal/platform/auth"
)

// ErrNotAllowed is returned when the caller's role cannot decide a request
// of the given type.
var ErrNotAllowed = errors.New("role cannot validate this request type")

var validTypes = map[string]bool{
	TypeSupply:        true,
	TypeSalaryAdvance: true,
	TypeCredit:        true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateRequest files a new request as PENDING.
func (s *Service) CreateRequest(ctx context.Context, req *Request) error {
	if req.RequestedBy == uuid.Nil {
		return fmt.Errorf("requested_by is required")
	}
	if !validTypes[req.Type] {
		return fmt.Errorf("invalid type: %s", req.Type)
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return fmt.Errorf("description is required")
	}
	if req.Type == TypeSupply {
		if req.Amount < 0 {
			return fmt.Errorf("amount cannot be negative")
		}
	} else if req.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	req.Status = StatusPending
	req.DecidedBy = nil
	req.DecisionNote = nil
	req.DecidedAt = nil
	return s.repo.Create(ctx, req)
}

// canDecide encodes the validation matrix: the PDG and the administrator
// decide anything, HR decides salary advances and credits, and supply
// requests need the PDG.
func canDecide(role auth.Role, reqType string) bool {
	switch role {
	case auth.RoleAdmin, auth.RolePDG:
		return true
	case auth.RoleRH:
		return reqType == TypeSalaryAdvance || reqType == TypeCredit
	default:
		return false
	}
}

// Decide approves or rejects a pending request, recording the validator
// and the decision time.
func (s *Service) Decide(ctx context.Context, id, decidedBy uuid.UUID, role auth.Role, approve bool, note string) (*Request, error) {
	if decidedBy == uuid.Nil {
		return nil, fmt.Errorf("decided_by is required")
	}
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("request not found: %w", err)
	}
	if req.Status != StatusPending {
		return nil, fmt.Errorf("request already decided")
	}
	if !canDecide(role, req.Type) {
		return nil, ErrNotAllowed
	}

	now := time.Now().UTC()
	if approve {
		req.Status = StatusApproved
	} else {
		req.Status = StatusRejected
	}
	req.DecidedBy = &decidedBy
	req.DecidedAt = &now
	if note = strings.TrimSpace(note); note != "" {
		req.DecisionNote = &note
	}
	if err := s.repo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListRequests(ctx context.Context, f Filter, limit, offset int) ([]*Request, int, error) {
	if f.Type != "" && !validTypes[f.Type] {
		return nil, 0, fmt.Errorf("invalid type: %s", f.Type)
	}
	if f.Status != "" && f.Status != StatusPending && f.Status != StatusApproved && f.Status != StatusRejected {
		return nil, 0, fmt.Errorf("invalid status: %s", f.Status)
	}
	return s.repo.List(ctx, f, limit, offset)
}
