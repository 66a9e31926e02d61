package share

import "errors"

// Sentinel errors surfaced by the service. Handlers map each to a distinct
// denial so a scanner is told exactly why a link stopped working.
var (
	ErrNotFound     = errors.New("share token not found")
	ErrExpired      = errors.New("share token has expired")
	ErrRevoked      = errors.New("share token was revoked by its owner")
	ErrInactive     = errors.New("share token is turned off")
	ErrUnauthorized = errors.New("caller does not own this share token")
)

// ValidationError reports malformed issuance or mutation input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(msg string) error {
	return &ValidationError{Msg: msg}
}

// StateError maps a non-active evaluated state to its sentinel error.
func StateError(s State) error {
	switch s {
	case StateExpired:
		return ErrExpired
	case StateRevoked:
		return ErrRevoked
	case StateInactive:
		return ErrInactive
	}
	return nil
}
