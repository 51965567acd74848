package accounts

import "time"

// RegisterRequest creates a new account. The two password fields must match.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Password2  string `json:"password2" validate:"required"`
	FirstName  string `json:"first_name" validate:"max=150"`
	LastName   string `json:"last_name" validate:"max=150"`
	MiddleName string `json:"middle_name" validate:"max=150"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest partially updates name fields; absent fields keep
// their prior values.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=150"`
	LastName   *string `json:"last_name" validate:"omitempty,max=150"`
	MiddleName *string `json:"middle_name" validate:"omitempty,max=150"`
}

// UserResponse is the wire form of a user; the password hash never leaves
// the server.
type UserResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MiddleName string `json:"middle_name"`
	Role       string `json:"role,omitempty"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Access    string    `json:"access"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DetailResponse carries a human-readable confirmation message.
type DetailResponse struct {
	Detail string `json:"detail"`
}

func toUserResponse(user *User, role string) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		MiddleName: user.MiddleName,
		Role:       role,
	}
}
