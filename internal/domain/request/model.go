package request

import (
	"time"

	"github.com/google/uuid"
)

// Request types.
const (
	TypeSupply        = "SUPPLY"
	TypeSalaryAdvance = "SALARY_ADVANCE"
	TypeCredit        = "CREDIT"
)

// Request statuses.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Request maps to the requests table. Staff file supply requests, salary
// advances and credits; a validator approves or rejects them, and the
// decision keeps who decided, when and an optional note. Amount is in
// francs and zero for supply requests without a cost estimate.
type Request struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	RequestedBy  uuid.UUID  `db:"requested_by" json:"requested_by"`
	Type         string     `db:"type" json:"type"`
	Description  string     `db:"description" json:"description"`
	Amount       int64      `db:"amount" json:"amount"`
	Status       string     `db:"status" json:"status"`
	DecidedBy    *uuid.UUID `db:"decided_by" json:"decided_by,omitempty"`
	DecisionNote *string    `db:"decision_note" json:"decision_note,omitempty"`
	DecidedAt    *time.Time `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Filter narrows request listings. Zero values mean "no constraint".
type Filter struct {
	RequestedBy *uuid.UUID
	Type        string
	Status      string
}
