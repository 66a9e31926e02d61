package record

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	records Repository
}

func NewService(records Repository) *Service {
	return &Service{records: records}
}

var validCategories = map[string]bool{
	"lab_report": true, "prescription": true, "imaging": true, "discharge_summary": true,
	"vaccination": true, "insurance": true, "other": true,
}

func (s *Service) Create(ctx context.Context, r *HealthRecord) error {
	if r.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.Category == "" {
		r.Category = "other"
	}
	if !validCategories[r.Category] {
		return fmt.Errorf("invalid category: %s", r.Category)
	}
	return s.records.Create(ctx, r)
}

// Get returns the record only when it belongs to ownerID. Token-mediated
// reads do not come through here; they go through the share access gate.
func (s *Service) Get(ctx context.Context, id, ownerID uuid.UUID) (*HealthRecord, error) {
	r, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.OwnerID != ownerID {
		return nil, fmt.Errorf("record not owned by caller")
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, r *HealthRecord, ownerID uuid.UUID) error {
	existing, err := s.records.GetByID(ctx, r.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("record not owned by caller")
	}
	if r.Category != "" && !validCategories[r.Category] {
		return fmt.Errorf("invalid category: %s", r.Category)
	}
	return s.records.Update(ctx, r)
}

func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	existing, err := s.records.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("record not owned by caller")
	}
	return s.records.Delete(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	return s.records.ListByOwner(ctx, ownerID, limit, offset)
}
