package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidSession is returned when code tries to store a malformed session.
	// It signals a programming error, not a recoverable condition.
	ErrInvalidSession = errors.New("invalid session")
	// ErrAuthRequired means the requested resource needs an authenticated session.
	ErrAuthRequired = errors.New("authentication required")
	// ErrForbidden means the session role may not perform the action.
	ErrForbidden = errors.New("access forbidden")
)

// Session is a snapshot of a tab's authentication state.
type Session struct {
	Token string
	Role  Role
}

// IsAuthenticated reports whether the snapshot carries a usable token.
func (s Session) IsAuthenticated() bool {
	return !IsBlankToken(s.Token)
}

// CurrentRole returns the role, or RoleNone for anonymous snapshots.
func (s Session) CurrentRole() Role {
	if !s.IsAuthenticated() {
		return RoleNone
	}
	return s.Role
}

// IsBlankToken reports whether a persisted token value must be read as absent.
// Stringified "undefined" and "null" show up when a client stored a missing value.
func IsBlankToken(token string) bool {
	t := strings.TrimSpace(token)
	return t == "" || t == "undefined" || t == "null"
}
