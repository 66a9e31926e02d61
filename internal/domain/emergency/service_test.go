package emergency

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	byOwner map[uuid.UUID]*Profile
}

func newMockRepo() *mockRepo {
	return &mockRepo{byOwner: make(map[uuid.UUID]*Profile)}
}

func (m *mockRepo) Upsert(_ context.Context, p *Profile) error {
	if existing, ok := m.byOwner[p.OwnerID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = uuid.New()
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	m.byOwner[p.OwnerID] = p
	return nil
}

func (m *mockRepo) GetByOwner(_ context.Context, ownerID uuid.UUID) (*Profile, error) {
	p, ok := m.byOwner[ownerID]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) DeleteByOwner(_ context.Context, ownerID uuid.UUID) error {
	delete(m.byOwner, ownerID)
	return nil
}

func strPtr(s string) *string { return &s }

func TestPutProfile(t *testing.T) {
	svc := NewService(newMockRepo())
	owner := uuid.New()

	p := &Profile{OwnerID: owner, BloodType: strPtr("O+")}
	if err := svc.Put(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), owner)
	if err != nil {
		t.Fatal(err)
	}
	if got.BloodType == nil || *got.BloodType != "O+" {
		t.Errorf("unexpected blood type: %v", got.BloodType)
	}
}

func TestPutProfile_UpsertKeepsSingleRow(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	owner := uuid.New()

	first := &Profile{OwnerID: owner, BloodType: strPtr("A+")}
	if err := svc.Put(context.Background(), first); err != nil {
		t.Fatal(err)
	}
	second := &Profile{OwnerID: owner, BloodType: strPtr("A-"), OrganDonor: true}
	if err := svc.Put(context.Background(), second); err != nil {
		t.Fatal(err)
	}

	if len(repo.byOwner) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(repo.byOwner))
	}
	if second.ID != first.ID {
		t.Error("expected upsert to preserve profile id")
	}
}

func TestPutProfile_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Put(context.Background(), &Profile{}); err == nil {
		t.Error("expected error for missing owner")
	}
	if err := svc.Put(context.Background(), &Profile{OwnerID: uuid.New(), BloodType: strPtr("Q+")}); err == nil {
		t.Error("expected error for invalid blood type")
	}
}

func TestDeleteProfile(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	owner := uuid.New()

	if err := svc.Put(context.Background(), &Profile{OwnerID: owner}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), owner); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(context.Background(), owner); err == nil {
		t.Error("expected profile to be gone")
	}
}
