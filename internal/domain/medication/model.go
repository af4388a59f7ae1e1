package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medications table. Price is in francs per unit.
type Medication struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Unit      string    `db:"unit" json:"unit"`
	Price     int64     `db:"price" json:"price"`
	Stock     int       `db:"stock" json:"stock"`
	MinStock  int       `db:"min_stock" json:"min_stock"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Sale maps to the medication_sales table. The unit price is captured at
// sale time so later catalog changes do not rewrite history.
type Sale struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	MedicationID uuid.UUID  `db:"medication_id" json:"medication_id"`
	PatientID    *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	SoldBy       uuid.UUID  `db:"sold_by" json:"sold_by"`
	Quantity     int        `db:"quantity" json:"quantity"`
	UnitPrice    int64      `db:"unit_price" json:"unit_price"`
	Total        int64      `db:"total" json:"total"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
