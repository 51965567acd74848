package auth

import "time"

// Identity is the account view the session layer needs to authenticate a caller.
type Identity struct {
	ID       int64
	Email    string
	IsActive bool
}

// Session represents one issued bearer token. Sessions are never physically
// deleted; logout and deactivation set the revoked flag.
type Session struct {
	ID        int64
	UserID    int64
	JTI       string
	CreatedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}

// Expired reports whether the session's stored expiry has passed.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
