package invoice

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses.
const (
	StatusUnpaid = "UNPAID"
	StatusPaid   = "PAID"
)

// Source record types an invoice can bill for.
const (
	SourceConsultation    = "CONSULTATION"
	SourceExam            = "EXAM"
	SourceMedicationSale  = "MEDICATION_SALE"
	SourceHospitalization = "HOSPITALIZATION"
)

// Invoice maps to the invoices table. Number is a human-facing reference
// (FAC-000042) drawn from a database sequence. When the invoice bills a
// specific record, SourceType and SourceID point back to it so callers can
// check whether a consultation, exam, sale or stay has been invoiced yet.
// Amounts are in francs.
type Invoice struct {
	ID         uuid.UUID      `db:"id" json:"id"`
	Number     string         `db:"number" json:"number"`
	PatientID  uuid.UUID      `db:"patient_id" json:"patient_id"`
	Status     string         `db:"status" json:"status"`
	SourceType *string        `db:"source_type" json:"source_type,omitempty"`
	SourceID   *uuid.UUID     `db:"source_id" json:"source_id,omitempty"`
	Total      int64          `db:"total" json:"total"`
	Items      []*InvoiceItem `db:"-" json:"items"`
	PaidBy     *uuid.UUID     `db:"paid_by" json:"paid_by,omitempty"`
	PaidAt     *time.Time     `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// InvoiceItem is one billed line. Total = Quantity * UnitPrice, fixed at
// creation time.
type InvoiceItem struct {
	ID        uuid.UUID `db:"id" json:"id"`
	InvoiceID uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Label     string    `db:"label" json:"label"`
	Quantity  int       `db:"quantity" json:"quantity"`
	UnitPrice int64     `db:"unit_price" json:"unit_price"`
	Total     int64     `db:"total" json:"total"`
}

// Filter narrows invoice listings. Zero values mean "no constraint".
type Filter struct {
	PatientID  *uuid.UUID
	Status     string
	SourceType string
	SourceID   *uuid.UUID
}
