package auth

import (
	"errors"
	"time"

	"github.com/vendora/vendora/internal/authz"
)

// ErrInvalidCredentials indicates login failure.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// User represents an authenticated user account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         authz.Role
	MerchantID   *int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal converts the account into the immutable per-request identity.
func (u User) Principal() *authz.Principal {
	return &authz.Principal{
		ID:         u.ID,
		Role:       u.Role,
		MerchantID: u.MerchantID,
		IsActive:   u.IsActive,
	}
}
