package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateConsultation(ctx context.Context, cons *Consultation) error {
	if cons.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if cons.DoctorID == uuid.Nil {
		return fmt.Errorf("doctor_id is required")
	}
	cons.Reason = strings.TrimSpace(cons.Reason)
	if cons.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if cons.Fee < 0 {
		return fmt.Errorf("fee cannot be negative")
	}
	cons.Status = StatusOpen
	return s.repo.Create(ctx, cons)
}

func (s *Service) GetConsultation(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateConsultation(ctx context.Context, cons *Consultation) error {
	existing, err := s.repo.GetByID(ctx, cons.ID)
	if err != nil {
		return fmt.Errorf("consultation not found: %w", err)
	}
	if existing.Status == StatusClosed {
		return fmt.Errorf("consultation is closed")
	}
	if cons.Fee < 0 {
		return fmt.Errorf("fee cannot be negative")
	}
	cons.Status = existing.Status
	cons.ClosedAt = existing.ClosedAt
	return s.repo.Update(ctx, cons)
}

// CloseConsultation records the diagnosis and freezes the record.
func (s *Service) CloseConsultation(ctx context.Context, id uuid.UUID, diagnosis string) (*Consultation, error) {
	cons, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("consultation not found: %w", err)
	}
	if cons.Status == StatusClosed {
		return nil, fmt.Errorf("consultation already closed")
	}

	diagnosis = strings.TrimSpace(diagnosis)
	if diagnosis == "" {
		return nil, fmt.Errorf("diagnosis is required to close a consultation")
	}

	now := time.Now().UTC()
	cons.Diagnosis = &diagnosis
	cons.Status = StatusClosed
	cons.ClosedAt = &now
	if err := s.repo.Update(ctx, cons); err != nil {
		return nil, err
	}
	return cons, nil
}

func (s *Service) DeleteConsultation(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListConsultations(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}
