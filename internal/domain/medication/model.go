package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medication table: one entry per drug the owner is
// taking or has taken.
type Medication struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OwnerID      uuid.UUID  `db:"owner_id" json:"owner_id"`
	Name         string     `db:"name" json:"name"`
	Dosage       *string    `db:"dosage" json:"dosage,omitempty"`
	Frequency    *string    `db:"frequency" json:"frequency,omitempty"`
	Instructions *string    `db:"instructions" json:"instructions,omitempty"`
	Prescriber   *string    `db:"prescriber" json:"prescriber,omitempty"`
	StartDate    *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate      *time.Time `db:"end_date" json:"end_date,omitempty"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
