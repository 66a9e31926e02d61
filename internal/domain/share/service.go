package share

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTTL applies when an expiring share is issued without an explicit
// time-to-live.
const DefaultTTL = 24 * time.Hour

// Grant is what the access gate returns for a valid token: the resolved
// resource set plus enough token metadata for the viewer to display.
type Grant struct {
	TokenID   uuid.UUID  `json:"token_id"`
	ScopeKind ScopeKind  `json:"scope_kind"`
	Label     *string    `json:"label,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Resources []Resource `json:"resources"`
}

type Service struct {
	tokens   TokenRepository
	events   AccessEventRepository
	resolver *Resolver
	baseURL  string
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(tokens TokenRepository, events AccessEventRepository, resolver *Resolver, baseURL string, logger zerolog.Logger) *Service {
	return &Service{
		tokens:   tokens,
		events:   events,
		resolver: resolver,
		baseURL:  baseURL,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// IssueParams carries the issuance request.
type IssueParams struct {
	OwnerID   uuid.UUID
	ScopeKind ScopeKind
	RecordIDs []uuid.UUID // single_record: exactly one; record_set: optional explicit list
	TTL       *time.Duration
	Label     *string
}

// Issue mints a new capability token. Every call produces a fresh id; the
// service never reuses or deduplicates tokens, including for live_profile
// shares.
func (s *Service) Issue(ctx context.Context, p IssueParams) (*Token, error) {
	if p.OwnerID == uuid.Nil {
		return nil, validationErrorf("owner_id is required")
	}
	if !p.ScopeKind.Valid() {
		return nil, validationErrorf("invalid scope_kind")
	}

	t := &Token{
		ID:        uuid.New(),
		OwnerID:   p.OwnerID,
		ScopeKind: p.ScopeKind,
		Label:     p.Label,
		IsActive:  true,
		CreatedAt: s.now(),
	}

	var recordIDs []uuid.UUID
	switch p.ScopeKind {
	case ScopeSingleRecord:
		if len(p.RecordIDs) != 1 {
			return nil, validationErrorf("single_record scope requires exactly one record id")
		}
		recordIDs = p.RecordIDs

	case ScopeRecordSet:
		recordIDs = p.RecordIDs
		if len(recordIDs) == 0 {
			// Snapshot semantics: bind whatever the owner has right now.
			// An owner with zero records still gets a token; the bundle
			// is just empty.
			ids, err := s.resolver.records.OwnedRecordIDs(ctx, p.OwnerID)
			if err != nil {
				return nil, err
			}
			recordIDs = ids
		}

	case ScopeLiveProfile:
		if p.TTL != nil {
			return nil, validationErrorf("live_profile shares do not expire; ttl must be omitted")
		}
	}

	if p.ScopeKind.Expiring() {
		ttl := DefaultTTL
		if p.TTL != nil {
			ttl = *p.TTL
		}
		if ttl <= 0 {
			return nil, validationErrorf("ttl must be positive")
		}
		exp := s.now().Add(ttl)
		t.ExpiresAt = &exp
	}

	if err := s.tokens.Create(ctx, t, recordIDs); err != nil {
		return nil, err
	}
	return t, nil
}

// Access is the single choke-point for token-mediated reads. It looks the
// token up, evaluates validity against the current instant, and either
// resolves the scope or fails closed with the specific denial reason.
//
// Whenever the token was located, exactly one access event is appended —
// valid or not — so owners see failed scans of revoked links too. The
// append is best-effort: a broken audit write is logged and swallowed, it
// never takes down a grant that was already decided. When the lookup itself
// misses there is nothing to attribute the event to, so nothing is logged.
func (s *Service) Access(ctx context.Context, tokenID uuid.UUID, requestorID *uuid.UUID) (*Grant, error) {
	t, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	defer func() {
		e := &AccessEvent{TokenID: t.ID, AccessedBy: requestorID, AccessedAt: s.now()}
		if err := s.events.Append(ctx, e); err != nil {
			s.logger.Warn().Err(err).Str("token_id", t.ID.String()).Msg("access event write failed")
		}
	}()

	if state := Evaluate(t, s.now()); state != StateActive {
		return nil, StateError(state)
	}

	resources, err := s.resolver.Resolve(ctx, t)
	if err != nil {
		return nil, err
	}

	return &Grant{
		TokenID:   t.ID,
		ScopeKind: t.ScopeKind,
		Label:     t.Label,
		ExpiresAt: t.ExpiresAt,
		Resources: resources,
	}, nil
}

// ownedToken loads a token and verifies the caller owns it.
func (s *Service) ownedToken(ctx context.Context, tokenID, callerID uuid.UUID) (*Token, error) {
	t, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != callerID {
		return nil, ErrUnauthorized
	}
	return t, nil
}

// Revoke marks the token revoked. Revoking an already-revoked token is a
// no-op success.
func (s *Service) Revoke(ctx context.Context, tokenID, callerID uuid.UUID) error {
	t, err := s.ownedToken(ctx, tokenID, callerID)
	if err != nil {
		return err
	}
	if t.IsRevoked {
		return nil
	}
	return s.tokens.SetRevoked(ctx, tokenID, true)
}

// Restore is the unified reactivation for expiring shares: it clears
// revocation and grants a fresh expiry window, whether the token died by
// revocation, by the clock, or both.
func (s *Service) Restore(ctx context.Context, tokenID, callerID uuid.UUID, ttl time.Duration) (*Token, error) {
	t, err := s.ownedToken(ctx, tokenID, callerID)
	if err != nil {
		return nil, err
	}
	if !t.ScopeKind.Expiring() {
		return nil, validationErrorf("live_profile shares do not expire; use activate instead")
	}
	if ttl <= 0 {
		return nil, validationErrorf("ttl must be positive")
	}
	exp := s.now().Add(ttl)
	if err := s.tokens.Restore(ctx, tokenID, exp); err != nil {
		return nil, err
	}
	t.IsRevoked = false
	t.ExpiresAt = &exp
	return t, nil
}

// SetActive toggles a non-expiring share on or off.
func (s *Service) SetActive(ctx context.Context, tokenID, callerID uuid.UUID, active bool) error {
	t, err := s.ownedToken(ctx, tokenID, callerID)
	if err != nil {
		return err
	}
	if t.ScopeKind.Expiring() {
		return validationErrorf("only live_profile shares can be toggled; use revoke or restore")
	}
	return s.tokens.SetActive(ctx, tokenID, active)
}

// Delete hard-deletes the token and its record links. The access history is
// purged best-effort afterwards: a failure there is logged, not returned —
// the owner asked for the token to be gone, and it is.
func (s *Service) Delete(ctx context.Context, tokenID, callerID uuid.UUID) error {
	if _, err := s.ownedToken(ctx, tokenID, callerID); err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, tokenID); err != nil {
		return err
	}
	if err := s.events.DeleteByToken(ctx, tokenID); err != nil {
		s.logger.Warn().Err(err).Str("token_id", tokenID.String()).Msg("access event cleanup failed")
	}
	return nil
}

// ListByOwner returns the owner's tokens, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Token, int, error) {
	return s.tokens.ListByOwner(ctx, ownerID, limit, offset)
}

// GetForOwner returns the token row and its linked record ids for owner
// review, regardless of the token's state — an expired share can still be
// previewed before the owner decides to restore it.
func (s *Service) GetForOwner(ctx context.Context, tokenID, callerID uuid.UUID) (*Token, []uuid.UUID, error) {
	t, err := s.ownedToken(ctx, tokenID, callerID)
	if err != nil {
		return nil, nil, err
	}
	ids, err := s.tokens.LinkedRecordIDs(ctx, tokenID)
	if err != nil {
		return nil, nil, err
	}
	return t, ids, nil
}

// ListAccessHistory returns the token's audit trail, most recent first.
func (s *Service) ListAccessHistory(ctx context.Context, tokenID, callerID uuid.UUID, limit, offset int) ([]*AccessEvent, int, error) {
	if _, err := s.ownedToken(ctx, tokenID, callerID); err != nil {
		return nil, 0, err
	}
	return s.events.ListByToken(ctx, tokenID, limit, offset)
}

// ShareURL renders the public link for a token.
func (s *Service) ShareURL(t *Token) string {
	return BuildShareURL(s.baseURL, t.ScopeKind, t.ID)
}
