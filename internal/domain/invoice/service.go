package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var validSources = map[string]bool{
	SourceConsultation:    true,
	SourceExam:            true,
	SourceMedicationSale:  true,
	SourceHospitalization: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInvoice validates the line items, fixes their totals, assigns an
// invoice number and stores the invoice as UNPAID.
func (s *Service) CreateInvoice(ctx context.Context, inv *Invoice) error {
	if inv.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("at least one item is required")
	}
	if (inv.SourceType == nil) != (inv.SourceID == nil) {
		return fmt.Errorf("source_type and source_id must be set together")
	}
	if inv.SourceType != nil && !validSources[*inv.SourceType] {
		return fmt.Errorf("invalid source_type: %s", *inv.SourceType)
	}

	var total int64
	for _, it := range inv.Items {
		it.Label = strings.TrimSpace(it.Label)
		if it.Label == "" {
			return fmt.Errorf("item label is required")
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("item quantity must be positive")
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("item unit price cannot be negative")
		}
		it.Total = int64(it.Quantity) * it.UnitPrice
		total += it.Total
	}
	inv.Total = total
	inv.Status = StatusUnpaid
	inv.PaidBy = nil
	inv.PaidAt = nil

	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		return fmt.Errorf("assign invoice number: %w", err)
	}
	inv.Number = number

	return s.repo.Create(ctx, inv)
}

// MarkPaid settles the invoice, recording the cashier and time of payment.
func (s *Service) MarkPaid(ctx context.Context, id, paidBy uuid.UUID) (*Invoice, error) {
	if paidBy == uuid.Nil {
		return nil, fmt.Errorf("paid_by is required")
	}
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}
	if inv.Status == StatusPaid {
		return nil, fmt.Errorf("invoice already paid")
	}
	now := time.Now().UTC()
	inv.Status = StatusPaid
	inv.PaidBy = &paidBy
	inv.PaidAt = &now
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

// DeleteInvoice removes an invoice. Paid invoices are part of the cash
// record and cannot be removed.
func (s *Service) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("invoice not found: %w", err)
	}
	if inv.Status == StatusPaid {
		return fmt.Errorf("cannot delete a paid invoice")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListInvoices(ctx context.Context, f Filter, limit, offset int) ([]*Invoice, int, error) {
	if f.Status != "" && f.Status != StatusUnpaid && f.Status != StatusPaid {
		return nil, 0, fmt.Errorf("invalid status: %s", f.Status)
	}
	if f.SourceType != "" && !validSources[f.SourceType] {
		return nil, 0, fmt.Errorf("invalid source_type: %s", f.SourceType)
	}
	return s.repo.List(ctx, f, limit, offset)
}

// Printable is the payload handed to clients for rendering a paper invoice.
type Printable struct {
	Invoice  *Invoice `json:"invoice"`
	IssuedAt string   `json:"issued_at"`
	Footer   string   `json:"footer"`
}

// Printable assembles the print payload for an invoice.
func (s *Service) Printable(ctx context.Context, id uuid.UUID) (*Printable, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}
	return &Printable{
		Invoice:  inv,
		IssuedAt: inv.CreatedAt.Format("02/01/2006"),
		Footer:   "Merci de conserver cette facture.",
	}, nil
}
