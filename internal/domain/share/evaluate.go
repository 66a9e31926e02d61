package share

import "time"

// Evaluate computes the token's state at the given instant. It is pure: the
// clock is always passed in so the gate and any owner-facing display agree
// on one instant, and so tests can pin time exactly.
//
// Precedence: revocation wins over everything else, so an owner reviewing a
// dead token is told the most actionable reason first. The inactive state
// only applies to non-expiring tokens; expiring tokens ignore the is_active
// flag entirely.
//
// The expiry boundary is inclusive: at exactly expires_at the token is
// already expired.
func Evaluate(t *Token, now time.Time) State {
	if t.IsRevoked {
		return StateRevoked
	}
	if t.ExpiresAt == nil {
		if !t.IsActive {
			return StateInactive
		}
		return StateActive
	}
	if !now.Before(*t.ExpiresAt) {
		return StateExpired
	}
	return StateActive
}
