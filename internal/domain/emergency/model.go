package emergency

import (
	"time"

	"github.com/google/uuid"
)

// Profile maps to the emergency_profile table. Each owner has at most one:
// the always-current snapshot a first responder needs.
type Profile struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	OwnerID             uuid.UUID `db:"owner_id" json:"owner_id"`
	BloodType           *string   `db:"blood_type" json:"blood_type,omitempty"`
	Allergies           *string   `db:"allergies" json:"allergies,omitempty"`
	Conditions          *string   `db:"conditions" json:"conditions,omitempty"`
	ContactName         *string   `db:"contact_name" json:"contact_name,omitempty"`
	ContactPhone        *string   `db:"contact_phone" json:"contact_phone,omitempty"`
	ContactRelationship *string   `db:"contact_relationship" json:"contact_relationship,omitempty"`
	OrganDonor          bool      `db:"organ_donor" json:"organ_donor"`
	Notes               *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

var validBloodTypes = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true,
}
