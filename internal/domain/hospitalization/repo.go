package hospitalization

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrRoomFull is returned when an admission or transfer would push a room
// past its capacity.
var ErrRoomFull = errors.New("room is full")

type Repository interface {
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	UpdateRoom(ctx context.Context, room *Room) error
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	ListRooms(ctx context.Context, limit, offset int) ([]*Room, int, error)

	// CreateAdmission atomically takes a bed in the room and records the
	// admission. Returns ErrRoomFull when no bed is free.
	CreateAdmission(ctx context.Context, a *Admission) error
	GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error)
	// Transfer atomically moves the admission to another room, releasing
	// the old bed and taking one in the new room.
	Transfer(ctx context.Context, a *Admission, toRoomID uuid.UUID) error
	// Discharge atomically releases the bed and closes the admission.
	Discharge(ctx context.Context, a *Admission) error
	ListAdmissions(ctx context.Context, f Filter, limit, offset int) ([]*Admission, int, error)
}
