package auth

import "errors"

// Authentication failure reasons. All of them render as a generic 401 to the
// client; they stay distinguishable internally for logging and tests.
var (
	ErrTokenMalformed   = errors.New("auth: malformed token")
	ErrTokenExpired     = errors.New("auth: token expired")
	ErrTokenInvalid     = errors.New("auth: invalid token signature")
	ErrSessionNotFound  = errors.New("auth: session not found")
	ErrSessionRevoked   = errors.New("auth: session revoked")
	ErrSessionExpired   = errors.New("auth: session expired")
	ErrIdentityInactive = errors.New("auth: identity inactive")
)
