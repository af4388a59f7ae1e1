package consultation

import (
	"time"

	"github.com/google/uuid"
)

// Consultation statuses.
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Consultation maps to the consultations table. Fee is in francs.
type Consultation struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PatientID uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	Reason    string     `db:"reason" json:"reason"`
	Diagnosis *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Status    string     `db:"status" json:"status"`
	Fee       int64      `db:"fee" json:"fee"`
	ClosedAt  *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
