package medication

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) AddMedication(ctx context.Context, m *Medication) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Unit == "" {
		m.Unit = "unité"
	}
	if m.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if m.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if m.MinStock < 0 {
		return fmt.Errorf("min_stock cannot be negative")
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) GetMedication(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateMedication(ctx context.Context, m *Medication) error {
	if m.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if m.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	return s.repo.Update(ctx, m)
}

func (s *Service) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListMedications(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListLowStock returns medications at or below their reorder threshold.
func (s *Service) ListLowStock(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return s.repo.ListLowStock(ctx, limit, offset)
}

// Restock adds delivered units to the shelf count.
func (s *Service) Restock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("medication not found: %w", err)
	}
	return s.repo.AddStock(ctx, id, quantity)
}

// Sell records a cash sale, pricing it from the catalog and decrementing
// stock. The caller is the cashier performing the sale.
func (s *Service) Sell(ctx context.Context, medicationID uuid.UUID, patientID *uuid.UUID, soldBy uuid.UUID, quantity int) (*Sale, error) {
	if soldBy == uuid.Nil {
		return nil, fmt.Errorf("sold_by is required")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	m, err := s.repo.GetByID(ctx, medicationID)
	if err != nil {
		return nil, fmt.Errorf("medication not found: %w", err)
	}

	sale := &Sale{
		MedicationID: medicationID,
		PatientID:    patientID,
		SoldBy:       soldBy,
		Quantity:     quantity,
		UnitPrice:    m.Price,
		Total:        m.Price * int64(quantity),
	}
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *Service) ListSales(ctx context.Context, limit, offset int) ([]*Sale, int, error) {
	return s.repo.ListSales(ctx, limit, offset)
}

func (s *Service) ListSalesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Sale, int, error) {
	return s.repo.ListSalesByPatient(ctx, patientID, limit, offset)
}
