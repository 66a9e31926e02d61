package emergency

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	profiles Repository
}

func NewService(profiles Repository) *Service {
	return &Service{profiles: profiles}
}

func (s *Service) Put(ctx context.Context, p *Profile) error {
	if p.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	if p.BloodType != nil && *p.BloodType != "" && !validBloodTypes[*p.BloodType] {
		return fmt.Errorf("invalid blood_type: %s", *p.BloodType)
	}
	return s.profiles.Upsert(ctx, p)
}

func (s *Service) Get(ctx context.Context, ownerID uuid.UUID) (*Profile, error) {
	return s.profiles.GetByOwner(ctx, ownerID)
}

func (s *Service) Delete(ctx context.Context, ownerID uuid.UUID) error {
	return s.profiles.DeleteByOwner(ctx, ownerID)
}
