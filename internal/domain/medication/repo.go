package medication

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInsufficientStock is returned when a sale asks for more units than the
// shelf holds.
var ErrInsufficientStock = errors.New("insufficient stock")

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Medication, int, error)
	ListLowStock(ctx context.Context, limit, offset int) ([]*Medication, int, error)
	AddStock(ctx context.Context, id uuid.UUID, quantity int) error

	// CreateSale atomically decrements stock and records the sale. It
	// returns ErrInsufficientStock when the decrement would go negative.
	CreateSale(ctx context.Context, sale *Sale) error
	ListSales(ctx context.Context, limit, offset int) ([]*Sale, int, error)
	ListSalesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Sale, int, error)
}
