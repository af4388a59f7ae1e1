package request

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	Update(ctx context.Context, req *Request) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Request, int, error)
}
