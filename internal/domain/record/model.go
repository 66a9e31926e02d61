package record

import (
	"time"

	"github.com/google/uuid"
)

// HealthRecord maps to the health_record table. It holds metadata for an
// uploaded document; the blob itself lives in external storage under
// StorageKey.
type HealthRecord struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	OwnerID    uuid.UUID  `db:"owner_id" json:"owner_id"`
	Title      string     `db:"title" json:"title"`
	Category   string     `db:"category" json:"category"`
	FileName   *string    `db:"file_name" json:"file_name,omitempty"`
	FileType   *string    `db:"file_type" json:"file_type,omitempty"`
	FileSize   *int64     `db:"file_size" json:"file_size,omitempty"`
	StorageKey *string    `db:"storage_key" json:"storage_key,omitempty"`
	RecordDate *time.Time `db:"record_date" json:"record_date,omitempty"`
	Notes      *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}
