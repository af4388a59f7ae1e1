package exam

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

// OrderExam registers a new laboratory exam for a patient.
func (s *Service) OrderExam(ctx context.Context, e *Exam) error {
	if e.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if e.OrderedBy == uuid.Nil {
		return fmt.Errorf("ordered_by is required")
	}
	e.ExamType = strings.TrimSpace(e.ExamType)
	if e.ExamType == "" {
		return fmt.Errorf("exam_type is required")
	}
	if e.Fee < 0 {
		return fmt.Errorf("fee cannot be negative")
	}
	e.Status = StatusOrdered
	return s.repo.Create(ctx, e)
}

// RecordResult stores the lab result and marks the exam completed.
func (s *Service) RecordResult(ctx context.Context, id, recordedBy uuid.UUID, result string) (*Exam, error) {
	if recordedBy == uuid.Nil {
		return nil, fmt.Errorf("recorded_by is required")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		return nil, fmt.Errorf("result is required")
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("exam not found: %w", err)
	}
	if e.Status == StatusCompleted {
		return nil, fmt.Errorf("result already recorded")
	}

	now := time.Now().UTC()
	e.Result = &result
	e.RecordedBy = &recordedBy
	e.Status = StatusCompleted
	e.ResultAt = &now
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) GetExam(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) DeleteExam(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListExams(ctx context.Context, limit, offset int) ([]*Exam, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Exam, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// ListPending returns exams awaiting a result, oldest first.
func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]*Exam, int, error) {
	return s.repo.ListByStatus(ctx, StatusOrdered, limit, offset)
}
