package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. FolderNumber is the human-facing
// dossier number printed on paper records and receipts.
type Patient struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FolderNumber string     `db:"folder_number" json:"folder_number"`
	FirstName    string     `db:"first_name" json:"first_name"`
	LastName     string     `db:"last_name" json:"last_name"`
	Gender       string     `db:"gender" json:"gender"`
	BirthDate    *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Address      *string    `db:"address" json:"address,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
