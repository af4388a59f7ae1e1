package hospitalization

import (
	"time"

	"github.com/google/uuid"
)

// Admission statuses.
const (
	StatusAdmitted   = "ADMITTED"
	StatusDischarged = "DISCHARGED"
)

// Room maps to the rooms table. Occupied is maintained transactionally as
// patients are admitted, transferred and discharged, and never exceeds
// Capacity. DailyRate is in francs.
type Room struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Number    string    `db:"number" json:"number"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Occupied  int       `db:"occupied" json:"occupied"`
	DailyRate int64     `db:"daily_rate" json:"daily_rate"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Admission maps to the admissions table. Maternity admissions are flagged
// so the maternity desk sees its own list.
type Admission struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	RoomID       uuid.UUID  `db:"room_id" json:"room_id"`
	AdmittedBy   uuid.UUID  `db:"admitted_by" json:"admitted_by"`
	Reason       string     `db:"reason" json:"reason"`
	Maternity    bool       `db:"maternity" json:"maternity"`
	Status       string     `db:"status" json:"status"`
	AdmittedAt   time.Time  `db:"admitted_at" json:"admitted_at"`
	DischargedAt *time.Time `db:"discharged_at" json:"discharged_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Filter narrows admission listings. Zero values mean "no constraint".
type Filter struct {
	PatientID *uuid.UUID
	Maternity *bool
	Status    string
}
