package medication

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	medications Repository
}

func NewService(medications Repository) *Service {
	return &Service{medications: medications}
}

func (s *Service) Create(ctx context.Context, m *Medication) error {
	if m.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.StartDate != nil && m.EndDate != nil && m.EndDate.Before(*m.StartDate) {
		return fmt.Errorf("end_date must not precede start_date")
	}
	return s.medications.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id, ownerID uuid.UUID) (*Medication, error) {
	m, err := s.medications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != ownerID {
		return nil, fmt.Errorf("medication not owned by caller")
	}
	return m, nil
}

func (s *Service) Update(ctx context.Context, m *Medication, ownerID uuid.UUID) error {
	existing, err := s.medications.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("medication not owned by caller")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.StartDate != nil && m.EndDate != nil && m.EndDate.Before(*m.StartDate) {
		return fmt.Errorf("end_date must not precede start_date")
	}
	return s.medications.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	existing, err := s.medications.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("medication not owned by caller")
	}
	return s.medications.Delete(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Medication, int, error) {
	return s.medications.ListByOwner(ctx, ownerID, limit, offset)
}
