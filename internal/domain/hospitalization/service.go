package hospitalization

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

func (s *Service) AddRoom(ctx context.Context, room *Room) error {
	room.Number = strings.TrimSpace(room.Number)
	if room.Number == "" {
		return fmt.Errorf("number is required")
	}
	if room.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive")
	}
	if room.DailyRate < 0 {
		return fmt.Errorf("daily rate cannot be negative")
	}
	room.Occupied = 0
	return s.repo.CreateRoom(ctx, room)
}

func (s *Service) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	return s.repo.GetRoom(ctx, id)
}

// UpdateRoom changes a room's number, capacity or rate. Capacity cannot
// drop below the current occupancy.
func (s *Service) UpdateRoom(ctx context.Context, id uuid.UUID, number string, capacity int, dailyRate int64) (*Room, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("room not found: %w", err)
	}
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, fmt.Errorf("number is required")
	}
	if capacity < room.Occupied {
		return nil, fmt.Errorf("capacity cannot be lower than current occupancy (%d)", room.Occupied)
	}
	if dailyRate < 0 {
		return nil, fmt.Errorf("daily rate cannot be negative")
	}
	room.Number = number
	room.Capacity = capacity
	room.DailyRate = dailyRate
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return fmt.Errorf("room not found: %w", err)
	}
	if room.Occupied > 0 {
		return fmt.Errorf("room still has %d patient(s)", room.Occupied)
	}
	return s.repo.DeleteRoom(ctx, id)
}

func (s *Service) ListRooms(ctx context.Context, limit, offset int) ([]*Room, int, error) {
	return s.repo.ListRooms(ctx, limit, offset)
}

// AdmitPatient opens an admission, taking a bed in the chosen room.
func (s *Service) AdmitPatient(ctx context.Context, a *Admission) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.RoomID == uuid.Nil {
		return fmt.Errorf("room_id is required")
	}
	if a.AdmittedBy == uuid.Nil {
		return fmt.Errorf("admitted_by is required")
	}
	a.Reason = strings.TrimSpace(a.Reason)
	if a.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	a.Status = StatusAdmitted
	a.AdmittedAt = time.Now().UTC()
	a.DischargedAt = nil
	return s.repo.CreateAdmission(ctx, a)
}

func (s *Service) GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return s.repo.GetAdmission(ctx, id)
}

// TransferPatient moves an active admission to another room.
func (s *Service) TransferPatient(ctx context.Context, id, toRoomID uuid.UUID) (*Admission, error) {
	if toRoomID == uuid.Nil {
		return nil, fmt.Errorf("room_id is required")
	}
	a, err := s.repo.GetAdmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("admission not found: %w", err)
	}
	if a.Status == StatusDischarged {
		return nil, fmt.Errorf("patient already discharged")
	}
	if a.RoomID == toRoomID {
		return nil, fmt.Errorf("patient is already in this room")
	}
	if err := s.repo.Transfer(ctx, a, toRoomID); err != nil {
		return nil, err
	}
	return a, nil
}

// DischargePatient closes an active admission and frees the bed.
func (s *Service) DischargePatient(ctx context.Context, id uuid.UUID) (*Admission, error) {
	a, err := s.repo.GetAdmission(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("admission not found: %w", err)
	}
	if a.Status == StatusDischarged {
		return nil, fmt.Errorf("patient already discharged")
	}
	now := time.Now().UTC()
	a.Status = StatusDischarged
	a.DischargedAt = &now
	if err := s.repo.Discharge(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListAdmissions(ctx context.Context, f Filter, limit, offset int) ([]*Admission, int, error) {
	if f.Status != "" && f.Status != StatusAdmitted && f.Status != StatusDischarged {
		return nil, 0, fmt.Errorf("invalid status: %s", f.Status)
	}
	return s.repo.ListAdmissions(ctx, f, limit, offset)
}
