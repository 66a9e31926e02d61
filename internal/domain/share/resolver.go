package share

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordSource supplies health records for scope resolution. Implemented by
// an adapter over the record repository (wired in main).
type RecordSource interface {
	// OwnedRecordIDs enumerates every record id the owner currently has.
	OwnedRecordIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	// RecordsByIDs fetches the given records; ids that no longer exist are
	// simply absent from the result.
	RecordsByIDs(ctx context.Context, ids []uuid.UUID) ([]Resource, error)
	// RecordsByOwner fetches all of the owner's current records.
	RecordsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Resource, error)
}

// MedicationSource supplies the owner's medication list for live scopes.
type MedicationSource interface {
	MedicationsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Resource, error)
}

// ProfileSource supplies the owner's emergency profile for live scopes.
// A missing profile is (nil, nil), not an error.
type ProfileSource interface {
	ProfileByOwner(ctx context.Context, ownerID uuid.UUID) (*Resource, error)
}

// Resolver materializes a token's abstract scope into the concrete resource
// set at access time.
type Resolver struct {
	tokens      TokenRepository
	records     RecordSource
	medications MedicationSource
	profiles    ProfileSource
}

func NewResolver(tokens TokenRepository, records RecordSource, medications MedicationSource, profiles ProfileSource) *Resolver {
	return &Resolver{
		tokens:      tokens,
		records:     records,
		medications: medications,
		profiles:    profiles,
	}
}

// Resolve expands the token's scope. Static scopes fetch the bound records;
// records the owner deleted since issuance silently drop out. The live
// profile scope re-enumerates the owner's current data on every call, which
// is what makes it live: two resolutions a minute apart can differ.
//
// Every resolved resource is re-checked against the token's owner before it
// leaves this function. Link rows are written server-side, but this is the
// choke-point, and dropping a foreign row here costs nothing.
func (r *Resolver) Resolve(ctx context.Context, t *Token) ([]Resource, error) {
	var resources []Resource

	switch t.ScopeKind {
	case ScopeSingleRecord, ScopeRecordSet:
		ids, err := r.tokens.LinkedRecordIDs(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("load token links: %w", err)
		}
		resources, err = r.records.RecordsByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("fetch records: %w", err)
		}

	case ScopeLiveProfile:
		recs, err := r.records.RecordsByOwner(ctx, t.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("fetch records: %w", err)
		}
		resources = append(resources, recs...)

		meds, err := r.medications.MedicationsByOwner(ctx, t.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("fetch medications: %w", err)
		}
		resources = append(resources, meds...)

		profile, err := r.profiles.ProfileByOwner(ctx, t.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("fetch emergency profile: %w", err)
		}
		if profile != nil {
			resources = append(resources, *profile)
		}

	default:
		return nil, fmt.Errorf("unknown scope kind: %s", t.ScopeKind)
	}

	filtered := resources[:0]
	for _, res := range resources {
		if res.OwnerID == t.OwnerID {
			filtered = append(filtered, res)
		}
	}
	return filtered, nil
}
