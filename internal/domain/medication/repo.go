package medication

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Medication, int, error)
	// ListAllByOwner returns the owner's complete medication list without
	// paging, for live-profile share resolution.
	ListAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Medication, error)
}
