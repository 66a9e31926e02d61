package record

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *HealthRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*HealthRecord, error)
	Update(ctx context.Context, r *HealthRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error)
	// ListIDsByOwner returns every record id the owner currently has,
	// used when a share bundle snapshots the owner's full record set.
	ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	GetManyByIDs(ctx context.Context, ids []uuid.UUID) ([]*HealthRecord, error)
}
