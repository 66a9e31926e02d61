package share

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ScopeKind determines how a token's resource set is derived.
type ScopeKind string

const (
	// ScopeSingleRecord binds the token to exactly one health record.
	ScopeSingleRecord ScopeKind = "single_record"
	// ScopeRecordSet binds the token to a fixed set of health records,
	// either an explicit list or a snapshot of everything the owner had
	// at issuance time. Records added later are not included.
	ScopeRecordSet ScopeKind = "record_set"
	// ScopeLiveProfile resolves dynamically to the owner's current records,
	// medications and emergency profile on every access. It never expires;
	// the owner toggles it on and off instead.
	ScopeLiveProfile ScopeKind = "live_profile"
)

func (k ScopeKind) Valid() bool {
	switch k {
	case ScopeSingleRecord, ScopeRecordSet, ScopeLiveProfile:
		return true
	}
	return false
}

// Expiring reports whether tokens of this kind carry an expiry timestamp.
func (k ScopeKind) Expiring() bool {
	return k != ScopeLiveProfile
}

// State is the evaluated condition of a token at a point in time.
type State string

const (
	StateActive   State = "active"
	StateExpired  State = "expired"
	StateRevoked  State = "revoked"
	StateInactive State = "inactive"
)

// Token maps to the share_token table. The id doubles as the capability
// secret embedded in the share URL, so it must never be guessable or
// enumerable — v4 UUIDs give 122 bits of randomness.
type Token struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	OwnerID   uuid.UUID  `db:"owner_id" json:"owner_id"`
	ScopeKind ScopeKind  `db:"scope_kind" json:"scope_kind"`
	Label     *string    `db:"label" json:"label,omitempty"`
	ExpiresAt *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	IsRevoked bool       `db:"is_revoked" json:"is_revoked"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// AccessEvent maps to the share_access_event table. Append-only: one row per
// access attempt against a token that exists, whatever the outcome.
type AccessEvent struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	TokenID    uuid.UUID  `db:"token_id" json:"token_id"`
	AccessedBy *uuid.UUID `db:"accessed_by" json:"accessed_by,omitempty"`
	AccessedAt time.Time  `db:"accessed_at" json:"accessed_at"`
}

// Resource is the opaque envelope the access gate returns. Payload carries
// the domain object; the gate only cares about identity and ownership.
type Resource struct {
	ID      uuid.UUID   `json:"id"`
	OwnerID uuid.UUID   `json:"-"`
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

const (
	ResourceKindRecord    = "health_record"
	ResourceKindMed       = "medication"
	ResourceKindEmergency = "emergency_profile"
)

// sharePathPrefix maps each scope kind to the path segment used in share
// URLs. The prefixes are part of the public link format and must stay
// stable: QR codes printed yesterday have to keep resolving.
var sharePathPrefix = map[ScopeKind]string{
	ScopeSingleRecord: "/share/r/",
	ScopeRecordSet:    "/share/b/",
	ScopeLiveProfile:  "/share/p/",
}

// BuildShareURL renders the shareable link for a token. The result is what
// gets encoded into a QR image by the frontend or a rendering service.
func BuildShareURL(baseURL string, kind ScopeKind, tokenID uuid.UUID) string {
	return strings.TrimRight(baseURL, "/") + sharePathPrefix[kind] + tokenID.String()
}
