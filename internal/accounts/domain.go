package accounts

import (
	"errors"
	"time"
)

// User represents a registered account. Deletion is soft: is_active flips to
// false and the record stays.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	MiddleName   string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	// ErrNotFound indicates the user does not exist.
	ErrNotFound = errors.New("accounts: user not found")
	// ErrEmailTaken indicates a registration with an already-used email.
	ErrEmailTaken = errors.New("accounts: email already registered")
	// ErrInvalidCredentials covers unknown email, wrong password and
	// deactivated accounts alike, so login errors stay generic.
	ErrInvalidCredentials = errors.New("accounts: invalid credentials")
)
