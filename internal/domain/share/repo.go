package share

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenRepository persists share tokens and their record links.
// Implementations must return ErrNotFound when a token id does not exist.
type TokenRepository interface {
	// Create persists the token and, for static scopes, one link row per
	// bound record. Token and links are written atomically.
	Create(ctx context.Context, t *Token, recordIDs []uuid.UUID) error
	// GetByID reads the freshest token row. The access gate calls this on
	// every request; validity state must never be served from a cache.
	GetByID(ctx context.Context, id uuid.UUID) (*Token, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Token, int, error)
	LinkedRecordIDs(ctx context.Context, tokenID uuid.UUID) ([]uuid.UUID, error)
	SetRevoked(ctx context.Context, id uuid.UUID, revoked bool) error
	// Restore clears revocation and rewrites the expiry in one update.
	Restore(ctx context.Context, id uuid.UUID, expiresAt time.Time) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// Delete removes the token; link rows go with it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccessEventRepository is the append-only audit log for token accesses.
type AccessEventRepository interface {
	Append(ctx context.Context, e *AccessEvent) error
	// ListByToken returns events most-recent-first.
	ListByToken(ctx context.Context, tokenID uuid.UUID, limit, offset int) ([]*AccessEvent, int, error)
	DeleteByToken(ctx context.Context, tokenID uuid.UUID) error
}
