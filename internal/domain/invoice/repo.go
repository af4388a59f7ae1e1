package invoice

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts the invoice and its line items atomically.
	Create(ctx context.Context, inv *Invoice) error
	// GetByID returns the invoice with its items loaded.
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Invoice, int, error)
	// NextNumber reserves the next invoice reference (FAC-000001, ...).
	NextNumber(ctx context.Context) (string, error)
}
