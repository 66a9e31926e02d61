package emergency

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Upsert creates the owner's profile or replaces the existing one.
	Upsert(ctx context.Context, p *Profile) error
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Profile, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}
