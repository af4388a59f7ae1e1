package exam

import (
	"time"

	"github.com/google/uuid"
)

// Exam statuses.
const (
	StatusOrdered   = "ORDERED"
	StatusCompleted = "COMPLETED"
)

// Exam maps to the exams table. An exam is ordered by a doctor and completed
// by the laboratory. Fee is in francs.
type Exam struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	PatientID  uuid.UUID  `db:"patient_id" json:"patient_id"`
	OrderedBy  uuid.UUID  `db:"ordered_by" json:"ordered_by"`
	RecordedBy *uuid.UUID `db:"recorded_by" json:"recorded_by,omitempty"`
	ExamType   string     `db:"exam_type" json:"exam_type"`
	Status     string     `db:"status" json:"status"`
	Result     *string    `db:"result" json:"result,omitempty"`
	Fee        int64      `db:"fee" json:"fee"`
	ResultAt   *time.Time `db:"result_at" json:"result_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
